package catalog

import "errors"

// validation and gating errors reported synchronously to the caller; the
// catalog is unchanged when any of these is returned
var (
	ErrNotAdmin    = errors.New("operation requires admin mode")
	ErrEmptyID     = errors.New("app id must not be empty")
	ErrDuplicateID = errors.New("an app with this id already exists")
	ErrAppNotFound = errors.New("app not found")
)

// ErrNoCachedCatalog: RestoreFromCache was asked to restore before any
// snapshot was ever written.
var ErrNoCachedCatalog = errors.New("no cached catalog snapshot")

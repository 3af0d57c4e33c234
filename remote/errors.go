package remote

import "errors"

// ErrNotFound: the catalog file does not exist on the remote yet.
var ErrNotFound = errors.New("remote document not found")

// ErrConflict: the supplied version token no longer matches the remote
// file. The write was rejected in full; the caller decides how to recover.
var ErrConflict = errors.New("remote document version conflict")

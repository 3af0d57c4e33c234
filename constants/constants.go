package constants

// shared constants used by multiple packages

const (
	CATALOG_CACHE_KEY   = "catalog_snapshot"
	FAVORITES_CACHE_KEY = "favorites"
)

const (
	SYNC_STATE_SYNCED      = "SYNCED"
	SYNC_STATE_PENDING     = "PENDING"
	SYNC_STATE_OUT_OF_SYNC = "OUT_OF_SYNC"
	SYNC_STATE_DEGRADED    = "DEGRADED"
)

const (
	SYNC_REASON_CONFLICT  = "CONFLICT"
	SYNC_REASON_TRANSPORT = "TRANSPORT"
	SYNC_REASON_BOOTSTRAP = "BOOTSTRAP"
)

const (
	PERMISSION_FULL     = "full"
	PERMISSION_READONLY = "readonly"
)

const CATALOG_COMMIT_MESSAGE = "storehub: update catalog"
const APP_IDENTIFIER = "storehub"

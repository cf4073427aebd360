package constants

const (
	// Table names
	TableUsers        = "users"
	TableRooms        = "rooms"
	TableBlockings    = "blockings"
	TableBlockedRooms = "blocked_rooms"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"
	HeaderAuthorization = "Authorization"

	ContentTypeJSON = "application/json"

	APIVersionPrefix = "/api/v1"

	// Context keys
	ContextKeyRequestID = "request_id"
	ContextKeyUserID    = "user_id"
)

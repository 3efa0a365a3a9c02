package constants

const (
	APIPrefix = "/api/v1"

	// 請求可自帶 request id，沒有時由 server 產生
	RequestIDHeader       = "X-Request-Id"
	LegacyRequestIDHeader = "request_id"

	AdminTokenHeader = "X-Admin-Token"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
)

package constants

// Common error messages
const (
	ErrInvalidSession     = "invalid user_id or session"
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidJSONShort   = "Invalid JSON"
	ErrMissingUserID      = "Missing or invalid user_id in body"
	ErrUserIDRequired     = "user_id required"
	ErrDB                 = "DB error"
	ErrInvalidRequestBody = "Invalid request body"
	ErrNoOrganization     = "No organization found for your account"
	ErrFailedToQuery      = "Failed to query"
	ErrPleaseLogin        = "Please login to continue."
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrMissingFile        = "Missing file in upload"
)

// Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeText      = "Content-Type"
	ContentTypeMultipart = "multipart/form-data"
	ContentTypeXLSX      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
	DateFormatAlt  = "02-01-2006"
	MonthKeyFormat = "2006-01"
	MonthFormat    = "Jan 2006"
)

// JSON keys / values
const (
	KeyUserID    = "user_id"
	ValueSuccess = "success"
	ValueError   = "error"
)

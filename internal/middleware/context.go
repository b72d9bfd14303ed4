package middleware

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserPlan  = "user_plan"
	ContextKeyRequestID = "request_id"
)

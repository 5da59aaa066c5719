package constants

// Pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Context and session keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
	ContextKeyClaims = "token_claims"

	SessionCookieName = "task_session"
)

// MaxTaskNameLength bounds task names, including AI drafts.
const MaxTaskNameLength = 200

// MaxAIGeneratedTasks caps the number of drafts accepted from one completion.
const MaxAIGeneratedTasks = 20

package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Identity ──────────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Schedule / window ─────────────────────────────────────────────
	ErrScheduleNotPublished ErrCode = "SCHEDULE_NOT_PUBLISHED"
	ErrNoExamToday          ErrCode = "NO_EXAM_TODAY"
	ErrWindowNotOpen        ErrCode = "WINDOW_NOT_OPEN"
	ErrWindowClosed         ErrCode = "WINDOW_CLOSED"

	// ─── Paper ─────────────────────────────────────────────────────────
	ErrPaperLoad   ErrCode = "PAPER_LOAD_ERROR"
	ErrPaperSchema ErrCode = "PAPER_SCHEMA_ERROR"

	// ─── Session ───────────────────────────────────────────────────────
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrSessionSubmitted ErrCode = "SESSION_SUBMITTED"
	ErrAnswersFrozen    ErrCode = "ANSWERS_FROZEN"
	ErrSubmitInFlight   ErrCode = "SUBMISSION_IN_FLIGHT"
	ErrSubmitFailed     ErrCode = "SUBMISSION_FAILED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Identity ──────────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An identity token is required."
	case ErrTokenInvalid:
		return "The identity token is not valid."
	case ErrTokenExpired:
		return "The identity token has expired."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "The request payload is not valid."

	// ─── Schedule / window ─────────────────────────────────────────────
	case ErrScheduleNotPublished:
		return "This month's schedule has not been published yet."
	case ErrNoExamToday:
		return "There is no exam scheduled for today."
	case ErrWindowNotOpen:
		return "Today's exam window has not opened yet."
	case ErrWindowClosed:
		return "Today's exam window has already closed."

	// ─── Paper ─────────────────────────────────────────────────────────
	case ErrPaperLoad:
		return "The question paper could not be loaded."
	case ErrPaperSchema:
		return "The question paper data is malformed."

	// ─── Session ───────────────────────────────────────────────────────
	case ErrSessionNotFound:
		return "No live session was found for this ID."
	case ErrSessionSubmitted:
		return "This session has already been submitted."
	case ErrAnswersFrozen:
		return "The exam time has elapsed; answers can no longer change."
	case ErrSubmitInFlight:
		return "A submission for this session is already in progress."
	case ErrSubmitFailed:
		return "The submission could not be recorded. Please try again."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

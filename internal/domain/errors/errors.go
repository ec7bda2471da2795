package errors

import "errors"

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções estão em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound       = errors.New("error.user_not_found")
	ErrEmailAlreadyExists = errors.New("error.email_already_exists")
	ErrUnauthorized       = errors.New("error.unauthorized")
	ErrForbidden          = errors.New("error.forbidden")
	ErrNotFound           = errors.New("error.not_found")
	ErrConflict           = errors.New("error.conflict")

	ErrListingNotFound    = errors.New("error.listing_not_found")
	ErrListingUnavailable = errors.New("error.listing_unavailable")
	ErrOwnListing         = errors.New("error.own_listing")
	ErrProfileExists      = errors.New("error.profile_listing_exists")

	ErrJobClosed          = errors.New("error.job_closed")
	ErrAlreadyApplied     = errors.New("error.already_applied")
	ErrInvalidTransition  = errors.New("error.invalid_status_transition")
	ErrBookingNotFound    = errors.New("error.booking_not_found")
	ErrApplicationMissing = errors.New("error.application_not_found")

	ErrCartNotFound       = errors.New("error.cart_not_found")
	ErrCartEmpty          = errors.New("error.cart_empty")
	ErrInsufficientStock  = errors.New("error.insufficient_stock")
	ErrEventSoldOut       = errors.New("error.event_sold_out")
	ErrCurrencyMismatch   = errors.New("error.currency_mismatch")
	ErrOrderNotFound      = errors.New("error.order_not_found")
	ErrPaymentFailed      = errors.New("error.payment_failed")
	ErrPaymentUnavailable = errors.New("error.payment_unavailable")
	ErrPaymentInProgress  = errors.New("error.payment_in_progress")

	ErrInsufficientCredits = errors.New("error.insufficient_credits")
	ErrAlreadyReviewed     = errors.New("error.already_reviewed")

	ErrConversationNotFound = errors.New("error.conversation_not_found")
	ErrSelfConversation     = errors.New("error.self_conversation")

	ErrUnsupportedMediaType = errors.New("error.unsupported_media_type")
	ErrFileTooLarge         = errors.New("error.file_too_large")
	ErrPresignUnavailable   = errors.New("error.presign_unavailable")
)

// Domain errors
// Nota: Estes são códigos de erro (message IDs para i18n).
var (
	ErrInvalidEmail      = errors.New("error.invalid_email")
	ErrInvalidEntityType = errors.New("error.invalid_entity_type")
	ErrInvalidQuery      = errors.New("error.invalid_query")
	ErrInvalidInput      = errors.New("error.invalid_input")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base vem de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation    = "/problems/validation-error"
	ProblemTypeNotFound      = "/problems/not-found"
	ProblemTypeConflict      = "/problems/conflict"
	ProblemTypeUnauthorized  = "/problems/unauthorized"
	ProblemTypeForbidden     = "/problems/forbidden"
	ProblemTypeInternal      = "/problems/internal-error"
	ProblemTypeBadRequest    = "/problems/bad-request"
	ProblemTypeUnprocessable = "/problems/unprocessable"
	ProblemTypePayment       = "/problems/payment-error"
)

// DomainError representa um erro de domínio com contexto adicional
type DomainError struct {
	Type    string
	Title   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Wrap anexa contexto a um erro sentinela preservando errors.Is
func Wrap(sentinel error, message string) error {
	return &DomainError{Message: message, Err: sentinel}
}

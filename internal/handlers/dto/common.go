package dto

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/moogar0880/problems"

	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/handlers/middleware"
)

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs)
type ErrorResponse struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Errors   []ValidationError      `json:"errors,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
	Value   string `json:"value,omitempty"`
}

// problemKind agrupa status HTTP, tipo do problema e chave do título
type problemKind struct {
	status      int
	problemType string
	titleKey    string
}

var (
	kindBadRequest    = problemKind{http.StatusBadRequest, errors.ProblemTypeBadRequest, "error.bad_request.title"}
	kindValidation    = problemKind{http.StatusBadRequest, errors.ProblemTypeValidation, "error.validation.title"}
	kindUnauthorized  = problemKind{http.StatusUnauthorized, errors.ProblemTypeUnauthorized, "error.unauthorized.title"}
	kindForbidden     = problemKind{http.StatusForbidden, errors.ProblemTypeForbidden, "error.forbidden.title"}
	kindNotFound      = problemKind{http.StatusNotFound, errors.ProblemTypeNotFound, "error.not_found.title"}
	kindConflict      = problemKind{http.StatusConflict, errors.ProblemTypeConflict, "error.conflict.title"}
	kindUnprocessable = problemKind{http.StatusUnprocessableEntity, errors.ProblemTypeUnprocessable, "error.unprocessable.title"}
	kindPayment       = problemKind{http.StatusPaymentRequired, errors.ProblemTypePayment, "error.payment.title"}
	kindUnavailable   = problemKind{http.StatusServiceUnavailable, errors.ProblemTypeInternal, "error.internal.title"}
	kindUnsupported   = problemKind{http.StatusUnsupportedMediaType, errors.ProblemTypeBadRequest, "error.bad_request.title"}
	kindTooLarge      = problemKind{http.StatusRequestEntityTooLarge, errors.ProblemTypeBadRequest, "error.bad_request.title"}
)

// errorKinds mapeia erros sentinela de domínio para o problema HTTP.
// A ordem importa: o primeiro errors.Is vence.
var errorKinds = []struct {
	err  error
	kind problemKind
}{
	{middleware.ErrMissingToken, kindUnauthorized},
	{middleware.ErrInvalidToken, kindUnauthorized},
	{errors.ErrUnauthorized, kindUnauthorized},
	{errors.ErrForbidden, kindForbidden},

	{errors.ErrUserNotFound, kindNotFound},
	{errors.ErrNotFound, kindNotFound},
	{errors.ErrListingNotFound, kindNotFound},
	{errors.ErrBookingNotFound, kindNotFound},
	{errors.ErrApplicationMissing, kindNotFound},
	{errors.ErrCartNotFound, kindNotFound},
	{errors.ErrOrderNotFound, kindNotFound},
	{errors.ErrConversationNotFound, kindNotFound},

	{errors.ErrEmailAlreadyExists, kindConflict},
	{errors.ErrConflict, kindConflict},
	{errors.ErrProfileExists, kindConflict},
	{errors.ErrAlreadyApplied, kindConflict},
	{errors.ErrAlreadyReviewed, kindConflict},
	{errors.ErrInvalidTransition, kindConflict},
	{errors.ErrPaymentInProgress, kindConflict},

	{errors.ErrListingUnavailable, kindUnprocessable},
	{errors.ErrOwnListing, kindUnprocessable},
	{errors.ErrJobClosed, kindUnprocessable},
	{errors.ErrCartEmpty, kindUnprocessable},
	{errors.ErrInsufficientStock, kindUnprocessable},
	{errors.ErrEventSoldOut, kindUnprocessable},
	{errors.ErrCurrencyMismatch, kindUnprocessable},
	{errors.ErrInsufficientCredits, kindUnprocessable},
	{errors.ErrSelfConversation, kindUnprocessable},

	{errors.ErrPaymentFailed, kindPayment},
	{errors.ErrPaymentUnavailable, kindUnavailable},
	{errors.ErrPresignUnavailable, kindUnavailable},

	{errors.ErrUnsupportedMediaType, kindUnsupported},
	{errors.ErrFileTooLarge, kindTooLarge},

	{errors.ErrInvalidEmail, kindValidation},
	{errors.ErrInvalidEntityType, kindValidation},
	{errors.ErrInvalidQuery, kindValidation},
	{errors.ErrInvalidInput, kindValidation},
}

// NewErrorResponseI18n cria uma resposta de erro usando i18n
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, detailKey string, status int, params ...map[string]interface{}) ErrorResponse {
	baseURL := c.GetString("base_url")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// título padrão do status quando não há tradução
	fallback := problems.NewStatusProblem(status)

	title := T(c, titleKey, params...)
	if title == titleKey {
		title = fallback.Title
	}
	detail := ""
	if detailKey != "" {
		detail = T(c, detailKey, params...)
	}

	return ErrorResponse{
		Type:     baseURL + problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request.URL.Path,
	}
}

// ProblemFromError converte um erro em problem details localizado.
// Erros desconhecidos viram 500 sem expor a mensagem interna.
func ProblemFromError(c *gin.Context, err error) ErrorResponse {
	for _, entry := range errorKinds {
		if stdErrors.Is(err, entry.err) {
			response := NewErrorResponseI18n(c, entry.kind.problemType, entry.kind.titleKey, entry.err.Error(), entry.kind.status)
			var domainErr *errors.DomainError
			if stdErrors.As(err, &domainErr) && domainErr.Message != "" && entry.kind.status < 500 {
				response.Meta = map[string]interface{}{"reason": domainErr.Message}
			}
			return response
		}
	}
	return InternalErrorResponseI18n(c)
}

// RespondError escreve o problem details com o media type RFC 7807
func RespondError(c *gin.Context, err error) {
	response := ProblemFromError(c, err)
	if response.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	writeProblem(c, response)
}

// AbortWithError é usado pelos middlewares para interromper a requisição
func AbortWithError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}

func writeProblem(c *gin.Context, response ErrorResponse) {
	c.Header("Content-Type", problems.ProblemMediaType)
	c.JSON(response.Status, response)
}

// RespondBindingError traduz falhas de binding/validação em 400 com erros por campo
func RespondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !stdErrors.As(err, &verrs) {
		response := NewErrorResponseI18n(c, kindBadRequest.problemType, kindBadRequest.titleKey, "error.invalid_body", kindBadRequest.status)
		writeProblem(c, response)
		return
	}

	fields := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, ValidationError{
			Field:   jsonFieldName(fe),
			Message: validationMessage(c, fe),
			Tag:     fe.Tag(),
		})
	}
	writeProblem(c, ValidationErrorResponseI18n(c, fields))
}

func validationMessage(c *gin.Context, fe validator.FieldError) string {
	params := map[string]interface{}{"Field": jsonFieldName(fe), "Param": fe.Param()}
	key := "validation." + fe.Tag()
	if msg := T(c, key, params); msg != key {
		return msg
	}
	return T(c, "validation.invalid", params)
}

// jsonFieldName converte o nome do campo Go (CamelCase) para snake_case
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidationErrorResponseI18n cria uma resposta de erro de validação
func ValidationErrorResponseI18n(c *gin.Context, validationErrors []ValidationError) ErrorResponse {
	response := NewErrorResponseI18n(
		c,
		errors.ProblemTypeValidation,
		"error.validation.title",
		"error.validation.detail",
		http.StatusBadRequest,
	)
	response.Errors = validationErrors
	return response
}

// InternalErrorResponseI18n cria uma resposta de erro 500
func InternalErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		errors.ProblemTypeInternal,
		"error.internal.title",
		"error.internal.detail",
		http.StatusInternalServerError,
	)
}

// PageMeta descreve a paginação de uma listagem
type PageMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// PageQuery são os parâmetros de paginação aceitos na query string
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

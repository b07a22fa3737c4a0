package httpapi

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/logging"
)

// Envelope — общий формат ответа REST.
type Envelope struct {
	Status        int    `json:"status"`
	StatusMessage string `json:"statusMessage"`
	Data          any    `json:"data,omitempty"`
	Error         any    `json:"error,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Status: http.StatusOK, StatusMessage: "Success", Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Status: http.StatusCreated, StatusMessage: "Created", Data: data})
}

// badRequest: кривой параметр пути или строки запроса.
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Status:        http.StatusBadRequest,
		StatusMessage: "Bad Request",
		Error:         msg,
	})
}

// statusOf сопоставляет категорию ошибки с HTTP-статусом и коротким описанием.
func statusOf(kind apperr.Kind) (int, string) {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity, "Validation Error"
	case apperr.KindNotFound:
		return http.StatusNotFound, "Not Found"
	case apperr.KindNotAvailable:
		return http.StatusNotFound, "Not Available"
	case apperr.KindAlreadyExists:
		return http.StatusConflict, "Already Exists"
	case apperr.KindUnauthorized:
		return http.StatusForbidden, "Access Not Authorized"
	case apperr.KindForbidden:
		return http.StatusForbidden, "Forbidden"
	case apperr.KindInvalidCredentials:
		return http.StatusUnauthorized, "Invalid Credentials"
	case apperr.KindConnectivity:
		return http.StatusServiceUnavailable, "Failed Connection"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	code, text := statusOf(kind)

	var body any
	switch kind {
	case apperr.KindValidation:
		body = fieldErrors(apperr.FieldsOf(err))
	case apperr.KindConnectivity:
		body = "service temporarily unavailable, try again later"
	case apperr.KindUnknown:
		body = "internal error"
	default:
		body = err.Error()
	}

	if code >= http.StatusInternalServerError {
		logging.Default(logging.FromContext(c.Request.Context())).ErrorContext(c.Request.Context(), "request failed",
			"error", err, "error_kind", kind.String())
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, Envelope{Status: code, StatusMessage: text, Error: body})
}

func fieldErrors(fields map[string]string) []FieldError {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]FieldError, 0, len(keys))
	for _, k := range keys {
		out = append(out, FieldError{Field: k, Message: fields[k]})
	}
	return out
}

package response

import (
	"net/http"

	"minoj/pkg/errors"
	"minoj/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the wire envelope for failed requests.
// Successful requests return the bare payload, not an envelope.
type ErrorBody struct {
	Code    errors.ErrorCode `json:"code"`
	Reason  string           `json:"reason"`
	Message string           `json:"message"`
}

// Success sends the payload as the whole response body
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error sends an error response.
// It automatically extracts error code and message from the error.
func Error(c *gin.Context, err error) {
	customErr := errors.GetError(err)

	logger.Warn(c.Request.Context(), "request error",
		zap.Int("code", int(customErr.Code)),
		zap.String("reason", customErr.Code.Reason()),
		zap.String("message", customErr.Error()),
	)

	body := ErrorBody{
		Code:    customErr.Code,
		Reason:  customErr.Code.Reason(),
		Message: customErr.Error(),
	}

	c.JSON(customErr.Code.HTTPStatus(), body)
}

// ErrorWithStatus sends an error envelope with an explicit HTTP status.
// A few endpoints answer with a status that differs from the code's
// default mapping, e.g. malformed job filters yield 404 with code 1.
func ErrorWithStatus(c *gin.Context, status int, code errors.ErrorCode, message string) {
	if message == "" {
		message = code.Message()
	}

	logger.Warn(c.Request.Context(), "request error",
		zap.Int("code", int(code)),
		zap.String("reason", code.Reason()),
		zap.String("message", message),
	)

	body := ErrorBody{
		Code:    code,
		Reason:  code.Reason(),
		Message: message,
	}

	c.JSON(status, body)
}

// BadRequest sends a 400 invalid-argument error
func BadRequest(c *gin.Context, message string) {
	Error(c, errors.InvalidArgumentError(message))
}

// NotFound sends a 404 not-found error for a resource
func NotFound(c *gin.Context, resource string) {
	Error(c, errors.NotFoundError(resource))
}

// InvalidQuery rejects malformed query parameters with 404 and code 1
func InvalidQuery(c *gin.Context, message string) {
	ErrorWithStatus(c, http.StatusNotFound, errors.InvalidArgument, message)
}

// InternalServerError sends a 500 internal error
func InternalServerError(c *gin.Context, err error) {
	Error(c, errors.InternalError(err))
}

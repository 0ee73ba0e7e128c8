package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK sends 200 with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{
		Message: MessageSuccess,
		Data:    data,
	})
}

// BadRequest rejects a malformed request body.
func BadRequest(c *gin.Context, err error) {
	abort(c, http.StatusBadRequest, err.Error(), nil)
}

// Unauthorized rejects a request without valid credentials, such as a
// webhook call with the wrong secret.
func Unauthorized(c *gin.Context) {
	abort(c, http.StatusUnauthorized, MessageUnauthorized, nil)
}

// Unavailable reports a component that is not working; data says which.
func Unavailable(c *gin.Context, data any) {
	abort(c, http.StatusServiceUnavailable, MessageUnavailable, data)
}

// abort writes the envelope with the HTTP status as error code.
func abort(c *gin.Context, status int, msg string, data any) {
	c.AbortWithStatusJSON(status, Resp{
		ErrorCode: status,
		Message:   msg,
		Data:      data,
	})
}

package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with. Code is 0 on success
// and the HTTP status otherwise.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends data with 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Message: "success", Data: data})
}

// Accepted sends data with 202, used when work continues in the background
func Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, Response{Message: "accepted", Data: data})
}

// Error sends an error envelope with the given status
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Code: status, Message: message})
}

// Abort sends an error envelope and stops the handler chain
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

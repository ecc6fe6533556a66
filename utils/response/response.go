package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error sends a standardized error response
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// ValidationError sends a response for validation errors
func ValidationError(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": messages})
}

// Message sends a response carrying a single informational message
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

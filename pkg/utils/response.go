package utils

import (
	"github.com/gin-gonic/gin"
)

// OK writes the success envelope.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// Fail writes the failure envelope.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"message": message},
	})
}

// FailCode writes the failure envelope with a machine-readable code.
func FailCode(c *gin.Context, status int, message, code string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"message": message, "code": code},
	})
}

package utils

import "github.com/gin-gonic/gin"

// Success writes data as the whole response body.
func Success(c *gin.Context, data any) {
	c.JSON(200, data)
}

// Error writes {"error": msg}, the only failure shape clients see.
func Error(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": msg,
	})
}

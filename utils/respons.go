package utils

import (
	"github.com/gin-gonic/gin"
)

// Response envelope shared with the menu frontend: {success, ...payload} on
// 2xx, {success:false, error} otherwise.

func RespondOrder(c *gin.Context, code int, order interface{}) {
	c.JSON(code, gin.H{
		"success": true,
		"order":   order,
	})
}

func RespondOrders(c *gin.Context, code int, orders interface{}) {
	c.JSON(code, gin.H{
		"success": true,
		"orders":  orders,
	})
}

func RespondData(c *gin.Context, code int, key string, data interface{}) {
	c.JSON(code, gin.H{
		"success": true,
		key:       data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

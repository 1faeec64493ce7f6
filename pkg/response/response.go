package response

import (
	"errors"
	"net/http"

	"momo-checkout-console/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// The checkout and admin pages consume the legacy wire shapes of the hosted
// scripts: a successful initiation is {"payment_url": ...}, a successful
// admin action is {"success": true}, and every failure carries an "error"
// string. These helpers keep the shapes stable in one place.

// PaymentURL sends a successful initiation response.
func PaymentURL(c *gin.Context, url string) {
	c.JSON(http.StatusOK, gin.H{"payment_url": url})
}

// Applied sends a successful admin action response.
func Applied(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// OK sends a 200 response with an arbitrary JSON body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps its status and message accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, gin.H{
			"success":    false,
			"error":      appErr.Message,
			"error_code": appErr.Code,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success":    false,
		"error":      "Internal server error",
		"error_code": "SYS_000",
	})
}

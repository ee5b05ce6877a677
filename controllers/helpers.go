package controllers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// fieldError answers status with a message naming the offending field.
func fieldError(c *gin.Context, status int, field, message string) {
	c.JSON(status, gin.H{"message": message, "field": field})
}

// bindingField returns the json name of the first field a binding error
// complains about.
func bindingField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0].Field()
		return strings.ToLower(f[:1]) + f[1:]
	}
	return ""
}

// bindingMessage renders a binding error for humans.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid payload"
	}
	fe := verrs[0]
	field := bindingField(err)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	}
	return field + " is invalid"
}

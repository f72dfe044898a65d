// Package response writes the JSON envelopes shared by every route.
package response

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// report json names in validation details instead of Go field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	}
}

// OK writes {"data": [data], "code": status, "message": message}.
func OK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, gin.H{"data": []interface{}{data}, "code": status, "message": message})
}

// Error writes {"error": errText, "code": status, "message": message}.
func Error(c *gin.Context, status int, errText, message string) {
	c.JSON(status, gin.H{"error": errText, "code": status, "message": message})
}

// Abort is Error for middleware; it stops the handler chain.
func Abort(c *gin.Context, status int, errText, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errText, "code": status, "message": message})
}

// Unauthorized answers 401 with the bearer challenge header.
func Unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	Abort(c, http.StatusUnauthorized, "Unauthorized", message)
}

// ValidationError answers 422 with one entry per rejected field.
func ValidationError(c *gin.Context, err error) {
	details := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = describe(fe)
		}
	} else {
		details["body"] = err.Error()
	}
	invalid(c, details)
}

// FieldError answers 422 for a single field rejected after binding.
func FieldError(c *gin.Context, field, message string) {
	invalid(c, map[string]string{field: message})
}

func invalid(c *gin.Context, details map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "Validation Error",
		"code":    http.StatusUnprocessableEntity,
		"message": "request validation failed",
		"details": details,
	})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"campusmarket/internal/middleware"
	"campusmarket/internal/models"
)

// Every response uses the same envelope:
// success: {"success":true,"message":...,"data":{...}}
// failure: {"success":false,"message":...,"errors":{field:[msg,...]}}

func respondSuccess(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func respondFieldErrors(c *gin.Context, fieldErrors map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  fieldErrors,
	})
}

// respondBindError maps a ShouldBindJSON failure to a 422 with a
// field -> messages map.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondFieldErrors(c, map[string][]string{"body": {"The request body is invalid."}})
		return
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := snakeCase(fe.Field())
		out[field] = append(out[field], fieldMessage(field, fe))
	}
	respondFieldErrors(c, out)
}

func fieldMessage(field string, fe validator.FieldError) string {
	name := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("The %s must be at least %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("The %s may not be greater than %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", name, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", strings.ReplaceAll(snakeCase(fe.Param()), "_", " "))
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(rune(s[i-1]))
			nextLower := i+1 < len(s) && unicode.IsLower(rune(s[i+1]))
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// currentUser returns the user placed in the context by the auth middleware.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(middleware.CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func currentToken(c *gin.Context) string {
	v, ok := c.Get(middleware.CtxToken)
	if !ok {
		return ""
	}
	t, _ := v.(string)
	return t
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n < 0 {
		return def
	}
	return n
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-attendance-api/internal/i18n"
)

// LocaleQueryParam overrides Accept-Language when present.
const LocaleQueryParam = "lang"

// Locale copies the caller's preferred language onto the request context.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := strings.TrimSpace(c.Query(LocaleQueryParam))
		if locale == "" {
			locale = c.GetHeader("Accept-Language")
		}
		if locale != "" {
			c.Request = c.Request.WithContext(i18n.WithLocale(c.Request.Context(), locale))
		}
		c.Next()
	}
}

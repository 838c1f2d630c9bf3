package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-attendance-api/internal/models"
	appErrors "github.com/noah-isme/academy-attendance-api/pkg/errors"
)

// parseDateParam parses a YYYY-MM-DD query value, defaulting to the calendar day of now.
func parseDateParam(raw string, now time.Time) (models.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.DateOf(now), nil
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	return date, nil
}

// parseQueryInt reads an optional integer query value. A present but
// non-numeric value is a validation error.
func parseQueryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, key+" must be a number")
	}
	return val, nil
}

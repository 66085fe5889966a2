package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/client"
	"github.com/Domenick1991/eventspark/internal/dashboard"
	"github.com/Domenick1991/eventspark/internal/service/cancellation"
	"github.com/Domenick1991/eventspark/internal/service/moderation"
	"github.com/Domenick1991/eventspark/internal/service/roles"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func rangeQuery(c *gin.Context) calendar.Range {
	return calendar.ParseRange(c.Query("from"), c.Query("to"))
}

// dayQuery reads ?day=YYYY-MM-DD. ok is false when the parameter is absent.
func dayQuery(c *gin.Context) (day calendar.Day, ok bool, err error) {
	raw := c.Query("day")
	if raw == "" {
		return calendar.Day{}, false, nil
	}
	day, ok = calendar.ParseDay(raw)
	if !ok {
		return calendar.Day{}, false, fmt.Errorf("invalid day %q, want YYYY-MM-DD", raw)
	}
	return day, true, nil
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	var apiErr *client.APIError
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, dashboard.ErrUnknownEvent):
		return http.StatusNotFound
	case errors.Is(err, moderation.ErrNotPending), errors.Is(err, roles.ErrUserExists), errors.Is(err, cancellation.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, roles.ErrInvalidRole),
		errors.Is(err, cancellation.ErrNotCancellable),
		errors.Is(err, cancellation.ErrNothingSelected),
		errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, client.ErrTransport), errors.Is(err, client.ErrMalformedResponse), errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package v1alpha1

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/placementdesk/backoffice/internal/service"
)

// (GET /api/v1/calendar?from=2006-01-02&to=2006-01-02)
func (s *ServiceHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	from, err := dateParam(r, "from")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid from date: %s", err))
		return
	}
	to, err := dateParam(r, "to")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid to date: %s", err))
		return
	}
	if from != nil && to != nil && to.Before(*from) {
		renderError(w, r, service.NewErrInvalidInput("to date precedes from date"))
		return
	}

	calendar, err := s.calendarSrv.GetCalendar(r.Context(), from, to)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, calendar)
}

func dateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

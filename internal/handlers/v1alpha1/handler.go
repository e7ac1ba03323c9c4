package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	api "github.com/placementdesk/backoffice/api/v1alpha1"
	"github.com/placementdesk/backoffice/internal/service"
)

type ServiceHandler struct {
	ownershipSrv  *service.OwnershipService
	classifierSrv *service.ClassifierService
	timelineSrv   *service.TimelineService
	calendarSrv   *service.CalendarService
}

func NewServiceHandler(
	ownership *service.OwnershipService,
	classifier *service.ClassifierService,
	timeline *service.TimelineService,
	calendar *service.CalendarService,
) *ServiceHandler {
	return &ServiceHandler{
		ownershipSrv:  ownership,
		classifierSrv: classifier,
		timelineSrv:   timeline,
		calendarSrv:   calendar,
	}
}

func (s *ServiceHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/pairings/{id}/assign", s.Assign)
		r.Post("/pairings/{id}/claim", s.Claim)
		r.Post("/pairings/{id}/feedback", s.AddFeedback)
		r.Get("/pairings/{id}/feedback", s.ListFeedback)
		r.Get("/candidates/{id}/timeline", s.GetTimeline)
		r.Get("/calendar", s.GetCalendar)
		r.Get("/events/{id}", s.GetCallingEvent)
		r.Post("/events/{id}/classify/{pairingId}", s.Classify)
		r.Post("/maintenance/expiry-sweep", s.RunExpirySweep)
		r.Post("/maintenance/bucket-repair", s.RunBucketRepair)
	})
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// renderError maps the service error taxonomy to HTTP statuses. Conflicts
// are retryable and say so.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.As(err, new(*service.ErrResourceNotFound)):
		render.Status(r, http.StatusNotFound)
	case errors.As(err, new(*service.ErrPermissionDenied)):
		render.Status(r, http.StatusForbidden)
	case errors.As(err, new(*service.ErrNotAssignable)),
		errors.As(err, new(*service.ErrUpdateConflict)):
		render.Status(r, http.StatusConflict)
	case errors.As(err, new(*service.ErrInvalidInput)):
		render.Status(r, http.StatusBadRequest)
	default:
		render.Status(r, http.StatusInternalServerError)
	}
	render.JSON(w, r, api.Error{Message: err.Error()})
}

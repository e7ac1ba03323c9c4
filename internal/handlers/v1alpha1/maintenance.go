package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	api "github.com/placementdesk/backoffice/api/v1alpha1"
	"github.com/placementdesk/backoffice/internal/service"
)

// (POST /api/v1/maintenance/expiry-sweep)
func (s *ServiceHandler) RunExpirySweep(w http.ResponseWriter, r *http.Request) {
	released, err := s.ownershipSrv.RunExpirySweep(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, api.SweepResult{Processed: released})
}

// (POST /api/v1/maintenance/bucket-repair?eventId=<uuid>)
func (s *ServiceHandler) RunBucketRepair(w http.ResponseWriter, r *http.Request) {
	var eventID *uuid.UUID
	if raw := r.URL.Query().Get("eventId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			renderError(w, r, service.NewErrInvalidInput("invalid event id"))
			return
		}
		eventID = &id
	}

	repaired, err := s.classifierSrv.RunBucketRepair(r.Context(), eventID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, api.SweepResult{Processed: repaired})
}

package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/placementdesk/backoffice/internal/handlers/v1alpha1/mappers"
	"github.com/placementdesk/backoffice/internal/service"
)

// (GET /api/v1/events/{id})
func (s *ServiceHandler) GetCallingEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "id")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid event id"))
		return
	}

	event, err := s.classifierSrv.GetEvent(r.Context(), eventID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.CallingEventToApi(event))
}

// (POST /api/v1/events/{id}/classify/{pairingId})
func (s *ServiceHandler) Classify(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "id")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid event id"))
		return
	}
	pairingID, err := pathUUID(r, "pairingId")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid pairing id"))
		return
	}

	if _, err := s.classifierSrv.Classify(r.Context(), eventID, pairingID); err != nil {
		renderError(w, r, err)
		return
	}

	event, err := s.classifierSrv.GetEvent(r.Context(), eventID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.CallingEventToApi(event))
}

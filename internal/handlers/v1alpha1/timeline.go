package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"
	api "github.com/placementdesk/backoffice/api/v1alpha1"
	"github.com/placementdesk/backoffice/internal/auth"
	"github.com/placementdesk/backoffice/internal/handlers/v1alpha1/mappers"
	"github.com/placementdesk/backoffice/internal/service"
)

// (POST /api/v1/pairings/{id}/feedback)
func (s *ServiceHandler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	pairingID, err := pathUUID(r, "id")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid pairing id"))
		return
	}

	var req api.FeedbackRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, service.NewErrInvalidInput("malformed body: %s", err))
		return
	}
	if req.Text == "" {
		renderError(w, r, service.NewErrInvalidInput("feedback text is required"))
		return
	}

	user := auth.MustHaveUser(r.Context())
	entry, err := s.timelineSrv.AddFeedback(r.Context(), pairingID, service.FeedbackForm{
		Text:       req.Text,
		Remark:     req.Remark,
		CallStatus: req.CallStatus,
		EnteredBy:  user.EmployeeCode,
		EntryID:    req.EntryID,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.FeedbackToApi(entry))
}

// (GET /api/v1/pairings/{id}/feedback)
func (s *ServiceHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	pairingID, err := pathUUID(r, "id")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid pairing id"))
		return
	}

	entries, err := s.timelineSrv.ListFeedback(r.Context(), pairingID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	result := make([]api.FeedbackEntry, 0, len(entries))
	for i := range entries {
		result = append(result, mappers.FeedbackToApi(&entries[i]))
	}
	render.JSON(w, r, result)
}

// (GET /api/v1/candidates/{id}/timeline)
func (s *ServiceHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	candidateID, err := pathUUID(r, "id")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid candidate id"))
		return
	}

	entries, err := s.timelineSrv.GetTimeline(r.Context(), candidateID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.TimelineToApi(entries))
}

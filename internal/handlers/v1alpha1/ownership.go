package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	api "github.com/placementdesk/backoffice/api/v1alpha1"
	"github.com/placementdesk/backoffice/internal/auth"
	"github.com/placementdesk/backoffice/internal/handlers/v1alpha1/mappers"
	"github.com/placementdesk/backoffice/internal/handlers/validator"
	"github.com/placementdesk/backoffice/internal/service"
)

// (POST /api/v1/pairings/{id}/assign)
func (s *ServiceHandler) Assign(w http.ResponseWriter, r *http.Request) {
	pairingID, err := pathUUID(r, "id")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid pairing id"))
		return
	}

	var req api.AssignRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, service.NewErrInvalidInput("malformed body: %s", err))
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewAssignValidationRules()...)
	if err := v.Struct(req); err != nil {
		renderError(w, r, service.NewErrInvalidInput("%s", err))
		return
	}

	user := auth.MustHaveUser(r.Context())
	form := service.AssignForm{
		NewOwner:            req.NewOwner,
		AssignedBy:          req.AssignedBy,
		FeedbackText:        req.FeedbackText,
		Notes:               req.Notes,
		NextFollowUpDate:    req.NextFollowUpDate,
		InterviewDate:       req.InterviewDate,
		ExpectedJoiningDate: req.ExpectedJoiningDate,
		ManagerOverride:     req.ManagerOverride,
	}
	if form.AssignedBy == "" {
		form.AssignedBy = user.EmployeeCode
	}

	pairing, err := s.ownershipSrv.Assign(r.Context(), pairingID, form)
	if err != nil {
		renderAssignmentError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.AssignmentResult{
		Status:  api.AssignmentOK,
		Pairing: mappers.PairingToApi(pairing),
	})
}

// (POST /api/v1/pairings/{id}/claim)
func (s *ServiceHandler) Claim(w http.ResponseWriter, r *http.Request) {
	pairingID, err := pathUUID(r, "id")
	if err != nil {
		renderError(w, r, service.NewErrInvalidInput("invalid pairing id"))
		return
	}

	var req api.ClaimRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, service.NewErrInvalidInput("malformed body: %s", err))
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewAssignValidationRules()...)
	if err := v.Struct(req); err != nil {
		renderError(w, r, service.NewErrInvalidInput("%s", err))
		return
	}

	claimant := req.Claimant
	if claimant == "" {
		claimant = auth.MustHaveUser(r.Context()).EmployeeCode
	}

	pairing, err := s.ownershipSrv.Claim(r.Context(), pairingID, claimant)
	if err != nil {
		renderAssignmentError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.AssignmentResult{
		Status:  api.AssignmentOK,
		Pairing: mappers.PairingToApi(pairing),
	})
}

// renderAssignmentError keeps the AssignmentResult envelope for the two
// rejection shapes callers branch on: lost races come back as "conflict"
// (retry the read), everything else as "error".
func renderAssignmentError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.As(err, new(*service.ErrUpdateConflict)) {
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, api.AssignmentResult{Status: api.AssignmentConflict, Message: err.Error()})
		return
	}
	if errors.As(err, new(*service.ErrNotAssignable)) {
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, api.AssignmentResult{Status: api.AssignmentError, Message: err.Error()})
		return
	}
	renderError(w, r, err)
}

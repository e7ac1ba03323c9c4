package mappers

import (
	api "github.com/placementdesk/backoffice/api/v1alpha1"
	"github.com/placementdesk/backoffice/internal/store/model"
)

func PairingToApi(p *model.Pairing) *api.Pairing {
	return &api.Pairing{
		ID:                  p.ID,
		CandidateID:         p.CandidateID,
		ClientName:          p.ClientName,
		State:               string(p.State),
		Owner:               p.Owner,
		AssignedBy:          p.AssignedBy,
		AssignedFrom:        p.AssignedFrom,
		TransferredAt:       p.TransferredAt,
		Remark:              p.EffectiveRemark(),
		NextFollowUpDate:    p.NextFollowUpDate,
		InterviewDate:       p.InterviewDate,
		ExpectedJoiningDate: p.ExpectedJoiningDate,
		ProfileSubmitted:    p.ProfileSubmitted,
	}
}

func FeedbackToApi(e *model.FeedbackEntry) api.FeedbackEntry {
	return api.FeedbackEntry{
		ID:             e.ID,
		PairingID:      e.PairingID,
		Text:           e.Text,
		RemarkSnapshot: e.RemarkSnapshot,
		CallStatus:     e.CallStatus,
		EnteredBy:      e.EnteredBy,
		EnteredAt:      e.EnteredAt,
		AmendedAt:      e.AmendedAt,
	}
}

func TimelineToApi(entries model.StatusEntryList) []api.TimelineEntry {
	out := make([]api.TimelineEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.TimelineEntry{
			ID:                e.ID,
			CandidateID:       e.CandidateID,
			PairingID:         e.PairingID,
			ClientName:        e.ClientName,
			Remark:            e.Remark,
			ProfileSubmission: e.ProfileSubmission,
			Attended:          e.Attended,
			ExtraNotes:        e.ExtraNotes,
			ChangeDate:        e.ChangeDate,
			CreatedBy:         e.CreatedBy,
		})
	}
	return out
}

func CallingEventToApi(e *model.CallingEvent) *api.CallingEvent {
	buckets := e.Buckets()
	return &api.CallingEvent{
		ID:            e.ID,
		ExecutiveCode: e.ExecutiveCode,
		PlanDate:      e.PlanDate.Format("2006-01-02"),
		Slot:          e.Slot,
		Buckets: api.BucketView{
			OnPlan:           buckets.OnPlan,
			OnOthers:         buckets.OnOthers,
			OnProfiles:       buckets.OnProfiles,
			OnProfilesOthers: buckets.OnProfilesOthers,
		},
	}
}

package events

// OwnershipEvent announces one ownership transition of a candidate-job
// pairing: assignment, claim or automatic release.
type OwnershipEvent struct {
	PairingID     string  `json:"pairing_id"`
	CandidateID   string  `json:"candidate_id"`
	PreviousOwner *string `json:"previous_owner,omitempty"`
	NewOwner      string  `json:"new_owner,omitempty"`
	Reason        string  `json:"reason"`
}

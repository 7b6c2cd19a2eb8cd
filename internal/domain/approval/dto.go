package approval

import "time"

type HistoryResponse struct {
	ID             string    `json:"id"`
	ReferenceType  string    `json:"reference_type"`
	ReferenceID    string    `json:"reference_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ApproverID     *string   `json:"approver_id,omitempty"`
	ApproverName   string    `json:"approver_name"`
	Note           *string   `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewHistoryResponse(h History) HistoryResponse {
	return HistoryResponse{
		ID:             h.ID,
		ReferenceType:  string(h.ReferenceType),
		ReferenceID:    h.ReferenceID,
		PreviousStatus: string(h.PreviousStatus),
		NewStatus:      string(h.NewStatus),
		ApproverID:     h.ApproverID,
		ApproverName:   h.ApproverName,
		Note:           h.Note,
		CreatedAt:      h.CreatedAt,
	}
}

func NewHistoryResponses(entries []History) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, h := range entries {
		out = append(out, NewHistoryResponse(h))
	}
	return out
}

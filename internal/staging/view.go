package staging

import (
	"time"

	"mediabrief/internal/domain"
)

// View is the JSON snapshot of a session returned to operators.
type View struct {
	ID                string                   `json:"id"`
	BriefID           string                   `json:"briefId"`
	State             domain.SessionState      `json:"state"`
	FileName          string                   `json:"fileName,omitempty"`
	Declaration       Declaration              `json:"declaration"`
	DetectedChannel   string                   `json:"detectedChannel,omitempty"`
	DetectedPublisher string                   `json:"detectedPublisher,omitempty"`
	Validation        *domain.ValidationResult `json:"validation,omitempty"`
	Candidates        []domain.ImportCandidate `json:"candidates"`
	Selected          []string                 `json:"selected"`
	Confirmed         []domain.BriefItem       `json:"confirmed,omitempty"`
	Debug             domain.DebugTrail        `json:"debug"`
	CreatedAt         time.Time                `json:"createdAt"`
	UpdatedAt         time.Time                `json:"updatedAt"`
}

// Snapshot copies the session into a View.
func (s *Session) Snapshot() View {
	v := View{
		ID:          s.ID,
		BriefID:     s.BriefID,
		State:       s.State,
		FileName:    s.FileName,
		Declaration: s.Declaration,
		Candidates:  make([]domain.ImportCandidate, len(s.Candidates)),
		Selected:    s.Selected(),
		Confirmed:   s.Confirmed,
		Debug:       s.Trail.Snapshot(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	copy(v.Candidates, s.Candidates)
	if s.Result != nil {
		v.DetectedChannel = s.Result.DetectedChannel
		v.DetectedPublisher = s.Result.DetectedPublisher
	}
	if s.Validation != nil {
		verdict := *s.Validation
		v.Validation = &verdict
	}
	return v
}

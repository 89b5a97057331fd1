// Package staging holds the per-upload import session: its lifecycle, the
// staged candidates, operator selection and the confirm merge into a brief cart.
package staging

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"mediabrief/internal/domain"
	"mediabrief/internal/duedate"
)

// Declaration is what the operator committed to before uploading.
type Declaration struct {
	Channel    string `json:"channel"`
	Publisher  string `json:"publisher"`
	State      string `json:"state,omitempty"`
	BufferDays int    `json:"bufferDays"`
}

// Session is one import run against one brief. A Session is not safe for
// concurrent use; callers serialize access per session.
type Session struct {
	ID          string
	BriefID     string
	State       domain.SessionState
	FileName    string
	Declaration Declaration
	Result      *domain.ExtractionResult
	Validation  *domain.ValidationResult
	Candidates  []domain.ImportCandidate
	Confirmed   []domain.BriefItem
	Trail       *domain.DebugTrail
	CreatedAt   time.Time
	UpdatedAt   time.Time

	selected map[string]bool
	index    map[string]int
}

// NewSession creates an idle session for a brief.
func NewSession(briefID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		BriefID:   briefID,
		State:     domain.SessionIdle,
		Trail:     domain.NewDebugTrail(),
		CreatedAt: now,
		UpdatedAt: now,
		selected:  map[string]bool{},
		index:     map[string]int{},
	}
}

func (s *Session) transition(to domain.SessionState, from ...domain.SessionState) error {
	for _, f := range from {
		if s.State == f {
			s.State = to
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	if s.State == domain.SessionExtracting {
		return domain.ErrExtractionInFlight
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.State, to)
}

// SelectFile starts (or restarts) an attempt with a new upload. Any previous
// result, candidates and selection are discarded.
func (s *Session) SelectFile(fileName string, decl Declaration) error {
	if decl.BufferDays < 0 {
		return domain.ErrInvalidBuffer
	}
	err := s.transition(domain.SessionFileSelected,
		domain.SessionIdle, domain.SessionFileSelected, domain.SessionExtractionFailed,
		domain.SessionValidated, domain.SessionStaged)
	if err != nil {
		return err
	}
	s.FileName = fileName
	s.Declaration = decl
	s.Result = nil
	s.Validation = nil
	s.Candidates = nil
	s.selected = map[string]bool{}
	s.index = map[string]int{}
	s.Trail = domain.NewDebugTrail()
	return nil
}

// BeginExtraction marks the single in-flight extraction of this session.
func (s *Session) BeginExtraction() error {
	return s.transition(domain.SessionExtracting, domain.SessionFileSelected)
}

// Fail ends the current attempt. The operator must re-upload to continue.
func (s *Session) Fail() error {
	return s.transition(domain.SessionExtractionFailed, domain.SessionExtracting)
}

// Validated records the chosen extraction attempt and its verdict. An
// invalid verdict is still a successful extraction.
func (s *Session) Validated(result *domain.ExtractionResult, verdict domain.ValidationResult) error {
	if err := s.transition(domain.SessionValidated, domain.SessionExtracting); err != nil {
		return err
	}
	s.Result = result
	s.Validation = &verdict
	return nil
}

// Stage turns the validated placements into candidates with ids distinct
// from every id in the cart, computes due dates and selects all candidates.
func (s *Session) Stage(cart *Cart) error {
	if err := s.transition(domain.SessionStaged, domain.SessionValidated); err != nil {
		return err
	}
	s.Candidates = make([]domain.ImportCandidate, 0, len(s.Result.Placements))
	for _, p := range s.Result.Placements {
		s.Candidates = append(s.Candidates, domain.ImportCandidate{
			ID:              freshID(cart, s.index),
			PlacementRecord: p,
		})
		s.index[s.Candidates[len(s.Candidates)-1].ID] = len(s.Candidates) - 1
	}
	s.Candidates = duedate.Recompute(s.Candidates, s.Declaration.BufferDays)
	s.selectAll()
	return nil
}

// SetBuffer re-runs the due date calculator over every candidate.
func (s *Session) SetBuffer(bufferDays int) error {
	if bufferDays < 0 {
		return domain.ErrInvalidBuffer
	}
	if s.State != domain.SessionStaged {
		return fmt.Errorf("%w: cannot change buffer in state %s", domain.ErrInvalidTransition, s.State)
	}
	s.Declaration.BufferDays = bufferDays
	s.Candidates = duedate.Recompute(s.Candidates, bufferDays)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Toggle flips the selection of one candidate.
func (s *Session) Toggle(candidateID string) error {
	if s.State != domain.SessionStaged {
		return fmt.Errorf("%w: cannot change selection in state %s", domain.ErrInvalidTransition, s.State)
	}
	if _, ok := s.index[candidateID]; !ok {
		return domain.ErrCandidateNotFound
	}
	if s.selected[candidateID] {
		delete(s.selected, candidateID)
	} else {
		s.selected[candidateID] = true
	}
	return nil
}

// SelectAll selects every staged candidate.
func (s *Session) SelectAll() error {
	if s.State != domain.SessionStaged {
		return fmt.Errorf("%w: cannot change selection in state %s", domain.ErrInvalidTransition, s.State)
	}
	s.selectAll()
	return nil
}

func (s *Session) selectAll() {
	for _, c := range s.Candidates {
		s.selected[c.ID] = true
	}
}

// DeselectAll clears the selection.
func (s *Session) DeselectAll() error {
	if s.State != domain.SessionStaged {
		return fmt.Errorf("%w: cannot change selection in state %s", domain.ErrInvalidTransition, s.State)
	}
	s.selected = map[string]bool{}
	return nil
}

// IsSelected reports whether a candidate is currently selected.
func (s *Session) IsSelected(candidateID string) bool {
	return s.selected[candidateID]
}

// Selected returns the selected candidate ids in candidate order.
func (s *Session) Selected() []string {
	out := []string{}
	for _, c := range s.Candidates {
		if s.selected[c.ID] {
			out = append(out, c.ID)
		}
	}
	return out
}

// PersistFunc hands confirmed items to durable storage before they are
// committed to the cart.
type PersistFunc func(items []domain.BriefItem) error

// Confirm maps the selected candidates to new brief items, each with an id not
// already in the cart, and appends them. Existing cart items are never modified. When persist is non-nil it
// runs first; if it fails the session stays staged and the cart is untouched,
// so the confirm can be retried.
func (s *Session) Confirm(cart *Cart, namer Namer, persist PersistFunc) ([]domain.BriefItem, error) {
	if s.State != domain.SessionStaged {
		return nil, s.transition(domain.SessionConfirmed, domain.SessionStaged)
	}
	if namer == nil {
		namer = codeNamer{}
	}

	items := []domain.BriefItem{}
	taken := map[string]int{}
	for i := range s.Candidates {
		c := &s.Candidates[i]
		if !s.selected[c.ID] {
			continue
		}
		id := freshID(cart, taken)
		taken[id] = len(items)
		items = append(items, toBriefItem(id, c, s.Declaration, namer))
	}

	if persist != nil && len(items) > 0 {
		if err := persist(items); err != nil {
			return nil, err
		}
	}
	if err := s.transition(domain.SessionConfirmed, domain.SessionStaged); err != nil {
		return nil, err
	}
	cart.Append(items)
	s.Confirmed = items
	return items, nil
}

// Cancel ends the session without touching any cart. Cancelling during an
// extraction discards its result when it arrives; the model call itself is
// not aborted.
func (s *Session) Cancel() error {
	return s.transition(domain.SessionCancelled,
		domain.SessionIdle, domain.SessionFileSelected, domain.SessionExtracting, domain.SessionExtractionFailed,
		domain.SessionValidated, domain.SessionStaged)
}

// freshID returns a uuid present neither in the cart nor in taken.
func freshID(cart *Cart, taken map[string]int) string {
	for {
		id := uuid.New().String()
		if _, dup := taken[id]; dup {
			continue
		}
		if cart != nil && cart.HasID(id) {
			continue
		}
		return id
	}
}

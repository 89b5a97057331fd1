package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"mediabrief/internal/config"
	"mediabrief/internal/domain"
	"mediabrief/internal/metrics"
	"mediabrief/internal/port"
	"mediabrief/internal/staging"
)

// ExtractInput is the DTO for one schedule upload.
type ExtractInput struct {
	BriefID    string
	FileName   string
	Data       []byte
	Channel    string
	Publisher  string
	State      string
	BufferDays *int
}

// ExtractResponse is returned for every extraction, successful or not.
// Debug is always populated.
type ExtractResponse struct {
	Success           bool
	SessionID         string
	State             domain.SessionState
	DetectedChannel   string
	DetectedPublisher string
	Placements        []domain.PlacementRecord
	Validation        *domain.ValidationResult
	Candidates        []domain.ImportCandidate
	Error             string
	Debug             domain.DebugTrail
}

// extractSuccessBody always carries placements and detection, even when empty.
type extractSuccessBody struct {
	Success           bool                     `json:"success"`
	SessionID         string                   `json:"sessionId"`
	State             domain.SessionState      `json:"state"`
	DetectedChannel   string                   `json:"detectedChannel"`
	DetectedPublisher string                   `json:"detectedPublisher"`
	Placements        []domain.PlacementRecord `json:"placements"`
	Validation        *domain.ValidationResult `json:"validation"`
	Candidates        []domain.ImportCandidate `json:"candidates"`
	Debug             domain.DebugTrail        `json:"debug"`
}

type extractFailureBody struct {
	Success   bool                `json:"success"`
	SessionID string              `json:"sessionId,omitempty"`
	State     domain.SessionState `json:"state,omitempty"`
	Error     string              `json:"error"`
	Debug     domain.DebugTrail   `json:"debug"`
}

// MarshalJSON writes the success shape or the {error, debug} failure shape.
func (r ExtractResponse) MarshalJSON() ([]byte, error) {
	debug := r.Debug
	if debug.Steps == nil {
		debug.Steps = []string{}
	}
	if !r.Success {
		return json.Marshal(extractFailureBody{
			Success:   false,
			SessionID: r.SessionID,
			State:     r.State,
			Error:     r.Error,
			Debug:     debug,
		})
	}
	body := extractSuccessBody{
		Success:           true,
		SessionID:         r.SessionID,
		State:             r.State,
		DetectedChannel:   r.DetectedChannel,
		DetectedPublisher: r.DetectedPublisher,
		Placements:        r.Placements,
		Validation:        r.Validation,
		Candidates:        r.Candidates,
		Debug:             debug,
	}
	if body.Placements == nil {
		body.Placements = []domain.PlacementRecord{}
	}
	if body.Candidates == nil {
		body.Candidates = []domain.ImportCandidate{}
	}
	return json.Marshal(body)
}

// UnmarshalJSON reads either shape back.
func (r *ExtractResponse) UnmarshalJSON(data []byte) error {
	var body struct {
		extractSuccessBody
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*r = ExtractResponse{
		Success:           body.Success,
		SessionID:         body.SessionID,
		State:             body.State,
		DetectedChannel:   body.DetectedChannel,
		DetectedPublisher: body.DetectedPublisher,
		Placements:        body.Placements,
		Validation:        body.Validation,
		Candidates:        body.Candidates,
		Error:             body.Error,
		Debug:             body.Debug,
	}
	return nil
}

// ImportService defines the schedule import contract.
type ImportService interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractResponse, error)
	Reextract(ctx context.Context, sessionID string, input ExtractInput) (*ExtractResponse, error)
	GetSession(sessionID string) (*staging.View, error)
	SetBuffer(sessionID string, bufferDays int) (*staging.View, error)
	Toggle(sessionID, candidateID string) (*staging.View, error)
	SelectAll(sessionID string) (*staging.View, error)
	DeselectAll(sessionID string) (*staging.View, error)
	Confirm(ctx context.Context, sessionID string) ([]domain.BriefItem, error)
	Cancel(sessionID string) (*staging.View, error)
	Cart(ctx context.Context, briefID string) ([]domain.BriefItem, error)
	EvictExpired(olderThan time.Time) int
}

// sessionEntry serializes access to one session.
type sessionEntry struct {
	mu      sync.Mutex
	session *staging.Session
}

type importService struct {
	content port.ContentExtractor
	runner  port.ExtractionRunner
	store   port.BriefStore
	namer   staging.Namer
	cfg     *config.ExtractionConfig

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	carts    map[string]*staging.Cart
}

// NewImportService creates a new ImportService implementation.
func NewImportService(
	content port.ContentExtractor,
	runner port.ExtractionRunner,
	store port.BriefStore,
	namer staging.Namer,
	cfg *config.ExtractionConfig,
) ImportService {
	return &importService{
		content:  content,
		runner:   runner,
		store:    store,
		namer:    namer,
		cfg:      cfg,
		sessions: map[string]*sessionEntry{},
		carts:    map[string]*staging.Cart{},
	}
}

func (s *importService) Extract(ctx context.Context, input ExtractInput) (*ExtractResponse, error) {
	cart, err := s.cart(ctx, input.BriefID)
	if err != nil {
		return nil, err
	}

	entry := &sessionEntry{session: staging.NewSession(input.BriefID)}
	s.mu.Lock()
	s.sessions[entry.session.ID] = entry
	s.mu.Unlock()

	log.Info().
		Str("session_id", entry.session.ID).
		Str("brief_id", input.BriefID).
		Str("file", input.FileName).
		Msg("importService.Extract: session created")

	return s.run(ctx, entry, cart, input)
}

func (s *importService) Reextract(ctx context.Context, sessionID string, input ExtractInput) (*ExtractResponse, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}
	cart, err := s.cart(ctx, entry.session.BriefID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, entry, cart, input)
}

// run drives one attempt. The session lock is released during the pipeline so
// the session can be read or cancelled; a second attempt meanwhile fails with
// domain.ErrExtractionInFlight.
func (s *importService) run(ctx context.Context, entry *sessionEntry, cart *staging.Cart, input ExtractInput) (*ExtractResponse, error) {
	decl := staging.Declaration{
		Channel:    input.Channel,
		Publisher:  input.Publisher,
		State:      input.State,
		BufferDays: s.cfg.DefaultBufferDays,
	}
	if input.BufferDays != nil {
		decl.BufferDays = *input.BufferDays
	}

	entry.mu.Lock()
	if err := entry.session.SelectFile(input.FileName, decl); err != nil {
		entry.mu.Unlock()
		return nil, err
	}
	if err := entry.session.BeginExtraction(); err != nil {
		entry.mu.Unlock()
		return nil, err
	}
	sessionID := entry.session.ID
	entry.mu.Unlock()

	trail := domain.NewDebugTrail()
	trail.Add("import started: declared channel %q, publisher %q, state %q", input.Channel, input.Publisher, input.State)
	result, verdict, err := s.pipeline(ctx, input, trail)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	sess := entry.session

	failure := func(err error) (*ExtractResponse, error) {
		sess.Trail = trail
		return &ExtractResponse{
			Success:   false,
			SessionID: sessionID,
			State:     sess.State,
			Error:     err.Error(),
			Debug:     trail.Snapshot(),
		}, err
	}

	if err != nil {
		trail.Add("extraction failed: %v", err)
		if failErr := sess.Fail(); failErr != nil {
			log.Warn().Err(failErr).Str("session_id", sessionID).Msg("importService.run: session left extracting state during pipeline")
		}
		log.Warn().Err(err).Str("session_id", sessionID).Msg("importService.run: extraction failed")
		return failure(err)
	}

	if err := sess.Validated(result, verdict); err != nil {
		trail.Add("result discarded: %v", err)
		log.Warn().Err(err).Str("session_id", sessionID).Msg("importService.run: result discarded")
		return failure(err)
	}
	if err := sess.Stage(cart); err != nil {
		trail.Add("staging failed: %v", err)
		log.Warn().Err(err).Str("session_id", sessionID).Msg("importService.run: staging failed")
		return failure(err)
	}
	trail.Add("staged %d candidate(s) with a %d-day due date buffer", len(sess.Candidates), decl.BufferDays)
	sess.Trail = trail

	log.Info().
		Str("session_id", sessionID).
		Int("placements", len(result.Placements)).
		Bool("valid", verdict.Valid).
		Int("attempt", result.Attempt).
		Msg("importService.run: extraction staged")

	v := sess.Snapshot()
	return &ExtractResponse{
		Success:           true,
		SessionID:         sessionID,
		State:             sess.State,
		DetectedChannel:   result.DetectedChannel,
		DetectedPublisher: result.DetectedPublisher,
		Placements:        result.Placements,
		Validation:        v.Validation,
		Candidates:        v.Candidates,
		Debug:             v.Debug,
	}, nil
}

// pipeline runs content normalization and the extraction runner.
func (s *importService) pipeline(ctx context.Context, input ExtractInput, trail *domain.DebugTrail) (*domain.ExtractionResult, domain.ValidationResult, error) {
	if limit := s.cfg.MaxFileSizeBytes(); limit > 0 && int64(len(input.Data)) > limit {
		return nil, domain.ValidationResult{}, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrFileTooLarge, len(input.Data), limit)
	}
	content, err := s.content.Extract(ctx, input.Data, input.FileName, trail)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}
	return s.runner.RunWithRetry(ctx, content, input.Channel, input.Publisher, trail)
}

func (s *importService) GetSession(sessionID string) (*staging.View, error) {
	return s.withSession(sessionID, func(*staging.Session) error { return nil })
}

func (s *importService) SetBuffer(sessionID string, bufferDays int) (*staging.View, error) {
	return s.withSession(sessionID, func(sess *staging.Session) error {
		return sess.SetBuffer(bufferDays)
	})
}

func (s *importService) Toggle(sessionID, candidateID string) (*staging.View, error) {
	return s.withSession(sessionID, func(sess *staging.Session) error {
		return sess.Toggle(candidateID)
	})
}

func (s *importService) SelectAll(sessionID string) (*staging.View, error) {
	return s.withSession(sessionID, func(sess *staging.Session) error {
		return sess.SelectAll()
	})
}

func (s *importService) DeselectAll(sessionID string) (*staging.View, error) {
	return s.withSession(sessionID, func(sess *staging.Session) error {
		return sess.DeselectAll()
	})
}

func (s *importService) Cancel(sessionID string) (*staging.View, error) {
	return s.withSession(sessionID, func(sess *staging.Session) error {
		return sess.Cancel()
	})
}

// Confirm merges the selection into the brief cart and hands the new items to
// the brief store. If the store rejects them the items stay in the cart.
func (s *importService) Confirm(ctx context.Context, sessionID string) ([]domain.BriefItem, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}
	cart, err := s.cart(ctx, entry.session.BriefID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	briefID := cart.BriefID()
	items, err := entry.session.Confirm(cart, s.namer, func(newItems []domain.BriefItem) error {
		if err := s.store.AppendItems(ctx, briefID, newItems); err != nil {
			log.Error().Err(err).Str("brief_id", briefID).Msg("importService.Confirm: brief store append failed")
			return fmt.Errorf("appending items to brief %s: %w", briefID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ItemsConfirmedTotal.Add(float64(len(items)))
	log.Info().
		Str("session_id", sessionID).
		Str("brief_id", briefID).
		Int("items", len(items)).
		Msg("importService.Confirm: items committed to brief")
	return items, nil
}

func (s *importService) Cart(ctx context.Context, briefID string) ([]domain.BriefItem, error) {
	cart, err := s.cart(ctx, briefID)
	if err != nil {
		return nil, err
	}
	return cart.Items(), nil
}

// EvictExpired drops sessions not updated since olderThan, except those with
// an extraction in flight. It returns the number evicted.
func (s *importService) EvictExpired(olderThan time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.sessions {
		if !entry.mu.TryLock() {
			continue
		}
		stale := entry.session.UpdatedAt.Before(olderThan) && entry.session.State != domain.SessionExtracting
		entry.mu.Unlock()
		if stale {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (s *importService) withSession(sessionID string, fn func(*staging.Session) error) (*staging.View, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := fn(entry.session); err != nil {
		return nil, err
	}
	v := entry.session.Snapshot()
	return &v, nil
}

func (s *importService) entry(sessionID string) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return entry, nil
}

// cart returns the brief's cart, seeding it from the brief store on first use.
func (s *importService) cart(ctx context.Context, briefID string) (*staging.Cart, error) {
	s.mu.Lock()
	cart, ok := s.carts[briefID]
	s.mu.Unlock()
	if ok {
		return cart, nil
	}

	existing, err := s.store.ListItems(ctx, briefID)
	if err != nil {
		return nil, fmt.Errorf("loading brief %s: %w", briefID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cart, ok := s.carts[briefID]; ok {
		return cart, nil
	}
	cart = staging.NewCart(briefID, existing)
	s.carts[briefID] = cart
	return cart, nil
}

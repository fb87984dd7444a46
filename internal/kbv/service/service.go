// Package service drives one KBV question round: load the session item,
// serve a locally-known question if one is outstanding, otherwise exchange
// the answered batch with the provider and persist the new state.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"kbvcri/internal/audit"
	"kbvcri/internal/identity"
	"kbvcri/internal/kbv/metrics"
	"kbvcri/internal/kbv/models"
	"kbvcri/internal/kbv/store"
	dErrors "kbvcri/pkg/domain-errors"
	"kbvcri/pkg/requestcontext"
)

// Gateway is the provider round-trip dependency.
type Gateway interface {
	GetQuestions(ctx context.Context, req models.QuestionRequest) (*models.QuestionsResponse, error)
	SubmitAnswers(ctx context.Context, req models.QuestionAnswerRequest) (*models.QuestionsResponse, error)
}

// IdentityService resolves stored identity attributes for first contact.
type IdentityService interface {
	PersonIdentity(ctx context.Context, sessionID string) (identity.PersonIdentity, error)
}

// AuditPublisher emits audit events for verification lifecycle actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// RoundResult is the outcome of one question round. Exactly one of Question
// or NoContent is meaningful: a question to ask next, or nothing further for
// this session (terminal, or verdict just recorded).
type RoundResult struct {
	Question  *models.Question
	NoContent bool
}

// Option configures the Service.
type Option func(*Service)

// WithAuditor configures an audit publisher for the service.
func WithAuditor(auditor AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

// WithLogger configures a logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics configures the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithStrategy overrides the question-selection policy sent on first contact.
func WithStrategy(strategy string) Option {
	return func(s *Service) {
		s.strategy = strategy
	}
}

// Service is the KBV orchestrator. It exclusively owns the question state
// lifecycle within a round; persistence is delegated to the store.
type Service struct {
	store      store.Store
	gateway    Gateway
	identity   IdentityService
	auditor    AuditPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	sessionTTL time.Duration
	strategy   string
}

// New constructs the orchestrator with its required dependencies.
func New(itemStore store.Store, gateway Gateway, identitySvc IdentityService, sessionTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		store:      itemStore,
		gateway:    gateway,
		identity:   identitySvc,
		sessionTTL: sessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextQuestion serves the next question for a session. No provider call is
// made while a locally-known unanswered question exists; at most one
// provider round-trip happens per answered batch.
func (s *Service) NextQuestion(ctx context.Context, sessionID string) (*RoundResult, error) {
	item, state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if question, ok := state.NextQuestion(); ok {
		s.metrics.IncrementRoundOutcome("question")
		return &RoundResult{Question: &question}, nil
	}

	if item.HasStatus() {
		// Terminal session: never re-query the provider.
		s.metrics.IncrementRoundOutcome("no_content")
		return &RoundResult{NoContent: true}, nil
	}

	return s.exchangeWithProvider(ctx, item, state)
}

// SubmitAnswer records an answer against the current batch. When the batch
// becomes fully answered the round continues straight into the provider
// exchange, so the caller learns immediately whether a new batch or a
// verdict followed.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID string, answer models.QuestionAnswer) (*RoundResult, error) {
	item, state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if item.HasStatus() {
		s.metrics.IncrementRoundOutcome("no_content")
		return &RoundResult{NoContent: true}, nil
	}

	if err := state.SetAnswer(answer); err != nil {
		return nil, err
	}

	if state.AnyUnanswered() {
		if err := s.persist(ctx, item, state); err != nil {
			return nil, err
		}
		question, _ := state.NextQuestion()
		s.metrics.IncrementRoundOutcome("question")
		return &RoundResult{Question: &question}, nil
	}

	return s.exchangeWithProvider(ctx, item, state)
}

// load fetches (or creates) the session item and decodes its state blob.
func (s *Service) load(ctx context.Context, sessionID string) (*models.KBVItem, *models.QuestionState, error) {
	if sessionID == "" {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "session id is required")
	}

	item, err := s.store.Get(ctx, sessionID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		item = &models.KBVItem{SessionID: sessionID}
		err = nil
	}
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "load kbv item")
	}

	state := models.NewQuestionState()
	if item.QuestionState != "" {
		if err := json.Unmarshal([]byte(item.QuestionState), state); err != nil {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "malformed question state")
		}
	}
	return item, state, nil
}

// exchangeWithProvider performs the one provider round-trip for a session
// with no outstanding question: first contact fetches a fresh batch, any
// later round submits the fully answered batch.
func (s *Service) exchangeWithProvider(ctx context.Context, item *models.KBVItem, state *models.QuestionState) (*RoundResult, error) {
	var resp *models.QuestionsResponse
	var err error

	if item.FirstContact() {
		person, perr := s.identity.PersonIdentity(ctx, item.SessionID)
		if perr != nil {
			return nil, perr
		}
		resp, err = s.gateway.GetQuestions(ctx, models.QuestionRequest{
			URN:            item.URN,
			Strategy:       s.strategy,
			PersonIdentity: person,
		})
	} else {
		resp, err = s.gateway.SubmitAnswers(ctx, models.QuestionAnswerRequest{
			Control: models.Control{AuthRefNo: item.AuthRefNo, URN: item.URN},
			Answers: state.Answers(),
		})
	}
	if err != nil {
		s.metrics.IncrementRoundOutcome("error")
		return nil, err
	}

	return s.applyResponse(ctx, item, state, resp)
}

func (s *Service) applyResponse(ctx context.Context, item *models.KBVItem, state *models.QuestionState, resp *models.QuestionsResponse) (*RoundResult, error) {
	if state.SetQuestionsResponse(resp) {
		s.adoptControl(item, resp.Control)
		item.ExpiryEpoch = requestcontext.Now(ctx).Add(s.sessionTTL).Unix()
		if err := s.persist(ctx, item, state); err != nil {
			return nil, err
		}
		s.audit(ctx, item.SessionID, audit.ActionRequestSent)
		s.metrics.IncrementRoundOutcome("question")

		question, _ := state.NextQuestion()
		return &RoundResult{Question: &question}, nil
	}

	if verdict := verdictFrom(resp.Results); verdict != "" {
		// The one round that receives the provider verdict sets the status.
		item.Status = verdict
		if err := s.persist(ctx, item, state); err != nil {
			return nil, err
		}
		if s.logger != nil {
			s.logger.InfoContext(ctx, "provider verdict recorded",
				"session_id", item.SessionID,
				"status", verdict,
			)
		}
		s.metrics.IncrementRoundOutcome("no_content")
		return &RoundResult{NoContent: true}, nil
	}

	// Exhausted or structured provider error: surface the raw parsed
	// response for diagnostics; the caller decides whether to re-invoke.
	s.metrics.IncrementRoundOutcome("error")
	return nil, dErrors.WithDetail(dErrors.CodeUpstream, "no questions available", resp)
}

// adoptControl records provider correlation ids on first receipt. Once set
// for a session they are never regenerated.
func (s *Service) adoptControl(item *models.KBVItem, control models.Control) {
	if item.AuthRefNo == "" {
		item.AuthRefNo = control.AuthRefNo
	}
	if item.URN == "" {
		item.URN = control.URN
	}
}

func (s *Service) persist(ctx context.Context, item *models.KBVItem, state *models.QuestionState) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode question state")
	}
	item.QuestionState = string(encoded)
	if err := s.store.Save(ctx, item); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save kbv item")
	}
	return nil
}

func (s *Service) audit(ctx context.Context, sessionID, action string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{SessionID: sessionID, Action: action}); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"session_id", sessionID,
			"action", action,
			"error", err,
		)
	}
}

// verdictFrom maps the provider's authentication result onto the stored
// status. Anything unrecognized yields no verdict; it must never default to
// a fail, since the evidence score is derived from this value.
func verdictFrom(results *models.Results) string {
	if results == nil {
		return ""
	}
	switch strings.ToLower(results.AuthenticationResult) {
	case "authenticated":
		return models.StatusPass
	case "not authenticated":
		return models.StatusFail
	default:
		return ""
	}
}

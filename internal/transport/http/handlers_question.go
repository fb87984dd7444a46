package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"kbvcri/internal/kbv/models"
	kbvservice "kbvcri/internal/kbv/service"
	dErrors "kbvcri/pkg/domain-errors"
	"kbvcri/pkg/platform/httputil"
	"kbvcri/pkg/requestcontext"
)

// HeaderSessionID carries the verification session id on every call.
const HeaderSessionID = "session-id"

// QuestionService defines the orchestrator operations the handler needs.
type QuestionService interface {
	NextQuestion(ctx context.Context, sessionID string) (*kbvservice.RoundResult, error)
	SubmitAnswer(ctx context.Context, sessionID string, answer models.QuestionAnswer) (*kbvservice.RoundResult, error)
}

// QuestionHandler wires the question-round endpoints to the orchestrator.
type QuestionHandler struct {
	service QuestionService
	logger  *slog.Logger
}

// NewQuestionHandler constructs a question handler.
func NewQuestionHandler(service QuestionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{service: service, logger: logger}
}

// Register mounts the question-round endpoints on the router.
func (h *QuestionHandler) Register(r chi.Router) {
	r.Get("/question", h.HandleQuestion)
	r.Post("/answer", h.HandleAnswer)
}

// HandleQuestion serves GET /question: the next unanswered question (200),
// nothing further for this session (204), or a diagnostic failure.
func (h *QuestionHandler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "session-id header is required"))
		return
	}
	ctx = requestcontext.WithSessionID(ctx, sessionID)

	result, err := h.service.NextQuestion(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "question round failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.writeRoundResult(w, result)
}

// AnswerRequest is the POST /answer body.
type AnswerRequest struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

func (req AnswerRequest) validate() error {
	if !govalidator.StringLength(req.QuestionID, "1", "64") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid questionId")
	}
	if !govalidator.StringLength(req.Answer, "1", "256") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid answer")
	}
	return nil
}

// HandleAnswer records one answer. When the batch completes, the response
// already reflects the provider exchange that followed.
func (h *QuestionHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "session-id header is required"))
		return
	}
	ctx = requestcontext.WithSessionID(ctx, sessionID)

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.SubmitAnswer(ctx, sessionID, models.QuestionAnswer{
		QuestionID: req.QuestionID,
		Answer:     req.Answer,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "answer round failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sessionID,
			"question_id", req.QuestionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.writeRoundResult(w, result)
}

func (h *QuestionHandler) writeRoundResult(w http.ResponseWriter, result *kbvservice.RoundResult) {
	if result.NoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result.Question)
}

package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"kbvcri/internal/kbv/models"
	kbvservice "kbvcri/internal/kbv/service"
	dErrors "kbvcri/pkg/domain-errors"
)

type fakeQuestionService struct {
	result *kbvservice.RoundResult
	err    error

	lastSessionID string
	lastAnswer    models.QuestionAnswer
}

func (f *fakeQuestionService) NextQuestion(ctx context.Context, sessionID string) (*kbvservice.RoundResult, error) {
	f.lastSessionID = sessionID
	return f.result, f.err
}

func (f *fakeQuestionService) SubmitAnswer(ctx context.Context, sessionID string, answer models.QuestionAnswer) (*kbvservice.RoundResult, error) {
	f.lastSessionID = sessionID
	f.lastAnswer = answer
	return f.result, f.err
}

func newTestRouter(svc *fakeQuestionService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(logger, NewQuestionHandler(svc, logger))
}

func TestQuestionRequiresSessionHeader(t *testing.T) {
	router := newTestRouter(&fakeQuestionService{})

	req := httptest.NewRequest(http.MethodGet, "/question", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session-id header, got %d", rec.Code)
	}
}

func TestQuestionReturnsNextQuestion(t *testing.T) {
	svc := &fakeQuestionService{result: &kbvservice.RoundResult{
		Question: &models.Question{ID: "Q1", Text: "Who provides your mortgage?"},
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/question", nil)
	req.Header.Set(HeaderSessionID, "session-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastSessionID != "session-1" {
		t.Fatalf("expected session id to reach the service, got %q", svc.lastSessionID)
	}

	var question models.Question
	if err := json.NewDecoder(rec.Body).Decode(&question); err != nil {
		t.Fatalf("failed to decode question response: %v", err)
	}
	if question.ID != "Q1" {
		t.Fatalf("expected question Q1, got %q", question.ID)
	}
}

func TestQuestionNoContentForTerminalSession(t *testing.T) {
	router := newTestRouter(&fakeQuestionService{result: &kbvservice.RoundResult{NoContent: true}})

	req := httptest.NewRequest(http.MethodGet, "/question", nil)
	req.Header.Set(HeaderSessionID, "session-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestAnswerRecordsAndReturnsNext(t *testing.T) {
	svc := &fakeQuestionService{result: &kbvservice.RoundResult{
		Question: &models.Question{ID: "Q2"},
	}}
	router := newTestRouter(svc)

	body, _ := json.Marshal(map[string]string{"questionId": "Q1", "answer": "red"})
	req := httptest.NewRequest(http.MethodPost, "/answer", bytes.NewReader(body))
	req.Header.Set(HeaderSessionID, "session-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastAnswer.QuestionID != "Q1" || svc.lastAnswer.Answer != "red" {
		t.Fatalf("unexpected answer forwarded: %+v", svc.lastAnswer)
	}
}

func TestAnswerValidation(t *testing.T) {
	router := newTestRouter(&fakeQuestionService{})

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", "{"},
		{"missing questionId", `{"answer":"red"}`},
		{"missing answer", `{"questionId":"Q1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/answer", bytes.NewReader([]byte(tc.body)))
			req.Header.Set(HeaderSessionID, "session-1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestUpstreamFailureSurfacesDiagnostic(t *testing.T) {
	diagnostic := &models.QuestionsResponse{
		Error: &models.ProviderError{Code: "1013", Message: "question store exhausted"},
	}
	router := newTestRouter(&fakeQuestionService{
		err: dErrors.WithDetail(dErrors.CodeUpstream, "no questions available", diagnostic),
	})

	req := httptest.NewRequest(http.MethodGet, "/question", nil)
	req.Header.Set(HeaderSessionID, "session-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body models.QuestionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode diagnostic body: %v", err)
	}
	if body.Error == nil || body.Error.Code != "1013" {
		t.Fatalf("expected raw provider diagnostic in body, got %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakeQuestionService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", rec.Code)
	}
}

package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	dErrors "kbvcri/pkg/domain-errors"
)

type fakeCredentialService struct {
	token string
	err   error

	lastSessionID string
}

func (f *fakeCredentialService) Issue(ctx context.Context, sessionID string) (string, error) {
	f.lastSessionID = sessionID
	return f.token, f.err
}

func newCredentialRouter(svc *fakeCredentialService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(logger, NewCredentialHandler(svc, logger))
}

func TestIssueCredential(t *testing.T) {
	svc := &fakeCredentialService{token: "eyJ.header.payload"}
	router := newCredentialRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/credential/issue", nil)
	req.Header.Set(HeaderSessionID, "session-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/jwt" {
		t.Fatalf("expected application/jwt content type, got %q", got)
	}
	if rec.Body.String() != "eyJ.header.payload" {
		t.Fatalf("expected raw token body, got %q", rec.Body.String())
	}
	if svc.lastSessionID != "session-1" {
		t.Fatalf("expected session id to reach the service, got %q", svc.lastSessionID)
	}
}

func TestIssueCredentialRequiresSessionHeader(t *testing.T) {
	router := newCredentialRouter(&fakeCredentialService{})

	req := httptest.NewRequest(http.MethodPost, "/credential/issue", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session-id header, got %d", rec.Code)
	}
}

func TestIssueCredentialWithoutVerdict(t *testing.T) {
	router := newCredentialRouter(&fakeCredentialService{
		err: dErrors.New(dErrors.CodeInvariantViolation, "kbv item status is not set"),
	})

	req := httptest.NewRequest(http.MethodPost, "/credential/issue", nil)
	req.Header.Set(HeaderSessionID, "session-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when no verdict recorded, got %d", rec.Code)
	}
}

func TestIssueCredentialUnknownSession(t *testing.T) {
	router := newCredentialRouter(&fakeCredentialService{
		err: dErrors.New(dErrors.CodeNotFound, "session not found"),
	})

	req := httptest.NewRequest(http.MethodPost, "/credential/issue", nil)
	req.Header.Set(HeaderSessionID, "nope")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", rec.Code)
	}
}

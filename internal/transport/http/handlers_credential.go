package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "kbvcri/pkg/domain-errors"
	"kbvcri/pkg/platform/httputil"
	"kbvcri/pkg/requestcontext"
)

// CredentialService issues the signed credential for a decided session.
type CredentialService interface {
	Issue(ctx context.Context, sessionID string) (string, error)
}

// CredentialHandler wires credential issuance to the credential service.
type CredentialHandler struct {
	service CredentialService
	logger  *slog.Logger
}

// NewCredentialHandler constructs a credential handler.
func NewCredentialHandler(service CredentialService, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{service: service, logger: logger}
}

// Register mounts the issuance endpoint on the router.
func (h *CredentialHandler) Register(r chi.Router) {
	r.Post("/credential/issue", h.HandleIssue)
}

// HandleIssue handles POST /credential/issue and responds with the signed
// credential JWT.
func (h *CredentialHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "session-id header is required"))
		return
	}
	ctx = requestcontext.WithSessionID(ctx, sessionID)

	token, err := h.service.Issue(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "credential issuance failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/jwt")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(token))
}

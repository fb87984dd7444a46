// Package credential assembles and signs the verifiable credential issued
// once the provider has returned a verdict for a session.
package credential

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"

	"kbvcri/internal/audit"
	"kbvcri/internal/identity"
	"kbvcri/internal/kbv/models"
	"kbvcri/internal/kbv/store"
	"kbvcri/internal/session"
	dErrors "kbvcri/pkg/domain-errors"
	"kbvcri/pkg/requestcontext"
)

// Credential claim constants. The context URIs and type list are part of
// the externally-visible credential contract and must not drift.
const (
	VCClaim              = "vc"
	VCType               = "type"
	VCContext            = "@context"
	VCCredentialSubject  = "credentialSubject"
	VCEvidence           = "evidence"
	VerifiableCredential = "VerifiableCredential"
	KBVCredential        = "KBVCredential"
	W3BaseContext        = "https://www.w3.org/2018/credentials/v1"
	DIContext            = "https://vocab.london.cloudapps.digital/contexts/identity-v1.jsonld"
)

// Signer turns a complete claim set into a signed compact token. Key
// handling is entirely the signer's concern.
type Signer interface {
	Sign(ctx context.Context, claims jwt.MapClaims) (string, error)
}

// IdentityService resolves the structured identity attributes copied onto
// the credential subject.
type IdentityService interface {
	PersonIdentityDetailed(ctx context.Context, sessionID string) (identity.PersonIdentityDetailed, error)
}

// AuditPublisher emits audit events for credential lifecycle actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
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

// Service issues signed KBV credentials from terminal session state.
type Service struct {
	sessions session.Service
	items    store.Store
	identity IdentityService
	signer   Signer
	auditor  AuditPublisher
	logger   *slog.Logger
	issuer   string
	maxTTL   time.Duration
}

// New constructs a credential service.
func New(sessions session.Service, items store.Store, identitySvc IdentityService, signer Signer, issuer string, maxTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		items:    items,
		identity: identitySvc,
		signer:   signer,
		issuer:   issuer,
		maxTTL:   maxTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue builds and signs the credential for a session with a recorded
// verdict. It either succeeds with a complete claim set or fails whole;
// no partial credential is ever emitted.
func (s *Service) Issue(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	// The item and identity lookups are independent reads.
	var item *models.KBVItem
	var person identity.PersonIdentityDetailed

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		item, err = s.items.Get(gctx, sessionID)
		return err
	})
	g.Go(func() error {
		var err error
		person, err = s.identity.PersonIdentityDetailed(gctx, sessionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	evidence, err := EvidenceFor(item)
	if err != nil {
		return "", err
	}

	now := requestcontext.Now(ctx)
	claims := jwt.MapClaims{
		"sub": sess.Subject,
		"iss": s.issuer,
		"nbf": now.Unix(),
		"exp": now.Add(s.maxTTL).Unix(),
		VCClaim: map[string]any{
			VCType:    []string{VerifiableCredential, KBVCredential},
			VCContext: []string{W3BaseContext, DIContext},
			VCCredentialSubject: map[string]any{
				"name":      person.Names,
				"birthDate": convertBirthDates(person.BirthDates),
				"address":   convertAddresses(person.Addresses),
			},
			VCEvidence: []Evidence{evidence},
		},
	}

	token, err := s.signer.Sign(ctx, claims)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign credential")
	}

	s.auditIssued(ctx, sessionID)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "credential issued",
			"session_id", sessionID,
			"verification_score", evidence.VerificationScore,
		)
	}
	return token, nil
}

// convertBirthDates renders each birth date as a calendar-date-only value.
func convertBirthDates(birthDates []identity.BirthDate) []map[string]string {
	out := make([]map[string]string, len(birthDates))
	for i, birthDate := range birthDates {
		out[i] = map[string]string{"value": birthDate.Value.Format("2006-01-02")}
	}
	return out
}

// convertAddresses copies each address, dropping the addressType
// discriminator: it is an artifact of the identity store, not part of the
// credential schema.
func convertAddresses(addresses []identity.Address) []map[string]string {
	out := make([]map[string]string, len(addresses))
	for i, addr := range addresses {
		entry := make(map[string]string)
		if addr.BuildingName != "" {
			entry["buildingName"] = addr.BuildingName
		}
		if addr.BuildingNumber != "" {
			entry["buildingNumber"] = addr.BuildingNumber
		}
		if addr.StreetName != "" {
			entry["streetName"] = addr.StreetName
		}
		if addr.AddressLocality != "" {
			entry["addressLocality"] = addr.AddressLocality
		}
		if addr.PostalCode != "" {
			entry["postalCode"] = addr.PostalCode
		}
		out[i] = entry
	}
	return out
}

func (s *Service) auditIssued(ctx context.Context, sessionID string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{SessionID: sessionID, Action: audit.ActionVCIssued}); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"session_id", sessionID,
			"action", audit.ActionVCIssued,
			"error", err,
		)
	}
}

package credential

import (
	"strings"

	"kbvcri/internal/kbv/models"
	dErrors "kbvcri/pkg/domain-errors"
)

// EvidenceTypeIdentityCheck is the evidence type emitted on every KBV
// credential.
const EvidenceTypeIdentityCheck = "IdentityCheck"

// Verification scores are a closed two-way mapping from the provider
// verdict. There is no partial credit.
const (
	PassScore = 2
	FailScore = 0
)

// Evidence describes how the identity check was performed and its outcome.
// It is derived on demand from the KBV item, never persisted.
type Evidence struct {
	Type              string `json:"type"`
	Txn               string `json:"txn"`
	VerificationScore int    `json:"verificationScore"`
}

// EvidenceFor maps a terminal provider status onto an evidence record. An
// absent or unrecognized status fails closed: defaulting to a score would
// forge evidence.
func EvidenceFor(item *models.KBVItem) (Evidence, error) {
	evidence := Evidence{
		Type: EvidenceTypeIdentityCheck,
		Txn:  item.AuthRefNo,
	}

	switch strings.ToLower(item.Status) {
	case models.StatusPass:
		evidence.VerificationScore = PassScore
	case models.StatusFail:
		evidence.VerificationScore = FailScore
	case "":
		return Evidence{}, dErrors.New(dErrors.CodeInvariantViolation, "kbv item status is not set")
	default:
		return Evidence{}, dErrors.New(dErrors.CodeInvariantViolation, "kbv item status is unknown")
	}

	return evidence, nil
}

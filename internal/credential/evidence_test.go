package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbvcri/internal/kbv/models"
	dErrors "kbvcri/pkg/domain-errors"
)

func TestEvidenceForPass(t *testing.T) {
	evidence, err := EvidenceFor(&models.KBVItem{Status: models.StatusPass, AuthRefNo: "ref-1"})
	require.NoError(t, err)
	assert.Equal(t, Evidence{
		Type:              EvidenceTypeIdentityCheck,
		Txn:               "ref-1",
		VerificationScore: PassScore,
	}, evidence)
}

func TestEvidenceForFail(t *testing.T) {
	evidence, err := EvidenceFor(&models.KBVItem{Status: models.StatusFail, AuthRefNo: "ref-1"})
	require.NoError(t, err)
	assert.Equal(t, FailScore, evidence.VerificationScore)
}

func TestEvidenceForStatusIsCaseInsensitive(t *testing.T) {
	evidence, err := EvidenceFor(&models.KBVItem{Status: "PASS"})
	require.NoError(t, err)
	assert.Equal(t, PassScore, evidence.VerificationScore)

	evidence, err = EvidenceFor(&models.KBVItem{Status: "Fail"})
	require.NoError(t, err)
	assert.Equal(t, FailScore, evidence.VerificationScore)
}

func TestEvidenceForMissingStatusFailsClosed(t *testing.T) {
	_, err := EvidenceFor(&models.KBVItem{AuthRefNo: "ref-1"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestEvidenceForUnknownStatusFailsClosed(t *testing.T) {
	_, err := EvidenceFor(&models.KBVItem{Status: "inconclusive"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

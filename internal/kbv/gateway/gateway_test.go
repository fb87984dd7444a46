package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbvcri/internal/kbv/models"
)

type fakeTransport struct {
	saaResponse *ProviderResponse
	rtqResponse *ProviderResponse
	err         error

	lastSAA *SAARequest
	lastRTQ *RTQRequest
}

func (t *fakeTransport) SAA(ctx context.Context, req *SAARequest) (*ProviderResponse, error) {
	t.lastSAA = req
	return t.saaResponse, t.err
}

func (t *fakeTransport) RTQ(ctx context.Context, req *RTQRequest) (*ProviderResponse, error) {
	t.lastRTQ = req
	return t.rtqResponse, t.err
}

func TestGatewayGetQuestions(t *testing.T) {
	transport := &fakeTransport{
		saaResponse: &ProviderResponse{
			Questions: &WireQuestions{Question: []WireQuestion{{QuestionID: "Q1", Text: "first"}}},
			Control:   WireControl{AuthRefNo: "ref-1", URN: "urn-1"},
		},
	}
	gw := New(transport, NewMapper("OPERATOR01"))

	resp, err := gw.GetQuestions(context.Background(), models.QuestionRequest{URN: "urn-1"})
	require.NoError(t, err)

	require.NotNil(t, transport.lastSAA)
	assert.Equal(t, "urn-1", transport.lastSAA.Control.URN)
	assert.Equal(t, "OPERATOR01", transport.lastSAA.Control.OperatorID)

	assert.True(t, resp.HasQuestions())
	assert.Equal(t, "Q1", resp.Questions[0].ID)
	assert.Equal(t, "ref-1", resp.Control.AuthRefNo)
}

func TestGatewaySubmitAnswers(t *testing.T) {
	transport := &fakeTransport{
		rtqResponse: &ProviderResponse{
			Results: &WireResults{AuthenticationResult: "Authenticated"},
		},
	}
	gw := New(transport, NewMapper("OPERATOR01"))

	resp, err := gw.SubmitAnswers(context.Background(), models.QuestionAnswerRequest{
		Control: models.Control{AuthRefNo: "ref-1", URN: "urn-1"},
		Answers: []models.QuestionAnswer{{QuestionID: "Q1", Answer: "a"}},
	})
	require.NoError(t, err)

	require.NotNil(t, transport.lastRTQ)
	assert.Equal(t, "ref-1", transport.lastRTQ.Control.AuthRefNo)
	require.Len(t, transport.lastRTQ.Responses.Response, 1)
	assert.Equal(t, "U", transport.lastRTQ.Responses.Response[0].AnswerActionFlag)

	require.NotNil(t, resp.Results)
	assert.Equal(t, "Authenticated", resp.Results.AuthenticationResult)
}

func TestGatewayPropagatesTransportError(t *testing.T) {
	transport := &fakeTransport{err: errors.New("connection refused")}
	gw := New(transport, NewMapper("OPERATOR01"))

	_, err := gw.GetQuestions(context.Background(), models.QuestionRequest{})
	assert.Error(t, err)

	_, err = gw.SubmitAnswers(context.Background(), models.QuestionAnswerRequest{})
	assert.Error(t, err)
}

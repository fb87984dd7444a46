// Package models holds the KBV domain types: the question batch, the
// provider correlation control, the per-session item record, and the
// normalized provider response consumed by both wire operations.
package models

import "kbvcri/internal/identity"

// Verdict values the provider can leave on a KBVItem. The status field is
// set exactly once, by the round that receives the verdict.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Question is a single personal-history question returned by the provider.
// The identifier is provider-assigned and unique within one session's batch.
type Question struct {
	ID           string       `json:"questionID"`
	Text         string       `json:"text"`
	Tooltip      string       `json:"tooltip,omitempty"`
	AnswerFormat AnswerFormat `json:"answerFormat"`
}

// AnswerFormat describes how a question must be answered.
type AnswerFormat struct {
	Identifier string   `json:"identifier,omitempty"`
	FieldType  string   `json:"fieldType,omitempty"`
	Options    []string `json:"answerList,omitempty"`
}

// QuestionAnswer is a submitted answer for one question.
type QuestionAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// QuestionAnswerPair couples a question with its recorded answer.
// An empty answer means the question is still outstanding.
type QuestionAnswerPair struct {
	Question Question `json:"question"`
	Answer   string   `json:"answer,omitempty"`
}

// Control carries the provider correlation identifiers issued on first
// contact. Once set for a session they are echoed on every subsequent call
// and never regenerated.
type Control struct {
	AuthRefNo string `json:"authRefNo"`
	URN       string `json:"urn"`
}

// Results is the verdict block the provider attaches once a session is
// decided. AuthenticationResult carries the pass/fail outcome.
type Results struct {
	Outcome              string   `json:"outcome,omitempty"`
	AuthenticationResult string   `json:"authenticationResult,omitempty"`
	NextTransIDs         []string `json:"nextTransId,omitempty"`
	ConfirmationCode     string   `json:"confirmationCode,omitempty"`
}

// ProviderError is a structured error reported inside a provider response.
// It is a result, not a transport fault.
type ProviderError struct {
	Code    string `json:"errorCode,omitempty"`
	Message string `json:"errorMessage,omitempty"`
}

// QuestionsResponse is the one normalized result shape for both provider
// operations (start-authentication and respond-to-questions).
type QuestionsResponse struct {
	Questions      []Question     `json:"questions,omitempty"`
	SkipsRemaining *int           `json:"skipsRemaining,omitempty"`
	SkipWarning    string         `json:"skipWarning,omitempty"`
	Control        Control        `json:"control"`
	Results        *Results       `json:"results,omitempty"`
	Error          *ProviderError `json:"error,omitempty"`
}

// HasQuestions reports whether the response carries a non-empty batch.
func (r *QuestionsResponse) HasQuestions() bool {
	return r != nil && len(r.Questions) > 0
}

// HasError reports whether the provider returned a structured error.
func (r *QuestionsResponse) HasError() bool {
	return r != nil && r.Error != nil
}

// QuestionRequest describes a first-contact question fetch.
type QuestionRequest struct {
	URN            string
	Strategy       string
	PersonIdentity identity.PersonIdentity
}

// QuestionAnswerRequest describes an answer submission for an in-flight
// session. Control must echo the identifiers from the first contact.
type QuestionAnswerRequest struct {
	Control Control
	Answers []QuestionAnswer
}

// KBVItem is the per-session persistence record. The question state is kept
// as an opaque serialized blob; the store never interprets it.
type KBVItem struct {
	SessionID     string `json:"sessionId"`
	Status        string `json:"status,omitempty"`
	AuthRefNo     string `json:"authRefNo,omitempty"`
	URN           string `json:"urn,omitempty"`
	ExpiryEpoch   int64  `json:"expiryDate"`
	QuestionState string `json:"questionState,omitempty"`

	// Revision guards read-modify-write cycles. Stores reject a save whose
	// revision does not match the persisted record.
	Revision int64 `json:"revision"`
}

// HasStatus reports whether a provider verdict has been recorded.
func (i *KBVItem) HasStatus() bool {
	return i != nil && i.Status != ""
}

// FirstContact reports whether the session has never reached the provider.
// The zero expiry epoch is the sentinel for a brand-new item.
func (i *KBVItem) FirstContact() bool {
	return i.ExpiryEpoch == 0
}

package models

import (
	"fmt"

	dErrors "kbvcri/pkg/domain-errors"
)

// QuestionState tracks the current batch of question/answer pairs for one
// session. It serializes to the single opaque state blob stored on the
// KBVItem; the unexported id index is rebuilt on demand after decoding.
//
// States are derived, never stored: no pairs means the session is empty, a
// pair without an answer means the batch is awaiting answers, and all pairs
// answered means the batch is ready to submit.
type QuestionState struct {
	QAPairs        []QuestionAnswerPair `json:"qaPairs"`
	SkipsRemaining *int                 `json:"skipsRemaining,omitempty"`
	SkipWarning    string               `json:"skipWarning,omitempty"`
	Control        *Control             `json:"control,omitempty"`

	// byID maps question id to pair index so answering is not a scan.
	byID map[string]int
}

// NewQuestionState returns an empty state for a brand-new session.
func NewQuestionState() *QuestionState {
	return &QuestionState{}
}

func (s *QuestionState) ensureIndex() {
	if s.byID != nil && len(s.byID) == len(s.QAPairs) {
		return
	}
	s.byID = make(map[string]int, len(s.QAPairs))
	for i, pair := range s.QAPairs {
		s.byID[pair.Question.ID] = i
	}
}

// SetAnswer records an answer against the pair with the matching question
// id. An unknown id signals a stale or forged identifier and fails without
// mutating state.
func (s *QuestionState) SetAnswer(answer QuestionAnswer) error {
	s.ensureIndex()
	i, ok := s.byID[answer.QuestionID]
	if !ok {
		return dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("question not found for questionID: %s", answer.QuestionID))
	}
	s.QAPairs[i].Answer = answer.Answer
	return nil
}

// NextQuestion returns the first unanswered question in provider-returned
// order, or false when every pair is answered (or no batch exists).
func (s *QuestionState) NextQuestion() (Question, bool) {
	for _, pair := range s.QAPairs {
		if pair.Answer == "" {
			return pair.Question, true
		}
	}
	return Question{}, false
}

// AllAnswered reports whether every pair carries a non-empty answer.
func (s *QuestionState) AllAnswered() bool {
	for _, pair := range s.QAPairs {
		if pair.Answer == "" {
			return false
		}
	}
	return true
}

// AnyUnanswered is the exact complement of AllAnswered.
func (s *QuestionState) AnyUnanswered() bool {
	return !s.AllAnswered()
}

// SetQuestionsResponse absorbs a provider batch: one fresh pair per returned
// question, skip counters updated, previous batch replaced. Returns whether
// the batch was non-empty; an empty batch leaves the state untouched.
func (s *QuestionState) SetQuestionsResponse(resp *QuestionsResponse) bool {
	if !resp.HasQuestions() {
		return false
	}
	pairs := make([]QuestionAnswerPair, len(resp.Questions))
	for i, q := range resp.Questions {
		pairs[i] = QuestionAnswerPair{Question: q}
	}
	s.QAPairs = pairs
	s.SkipsRemaining = resp.SkipsRemaining
	s.SkipWarning = resp.SkipWarning
	s.byID = nil
	return true
}

// Answers derives the submitted-answer list from the pairs. Answers are
// never stored separately from the pairs.
func (s *QuestionState) Answers() []QuestionAnswer {
	answers := make([]QuestionAnswer, len(s.QAPairs))
	for i, pair := range s.QAPairs {
		answers[i] = QuestionAnswer{QuestionID: pair.Question.ID, Answer: pair.Answer}
	}
	return answers
}

package surveysession

import (
	"context"
	"errors"
	"fmt"

	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
)

// SetAnswer records a value for the question at the given index of the
// current page. The end-of-survey conditions are checked against the full
// answer context including the new value; the first match raises a prompt
// that stays pending until confirmed or declined. The returned string is the
// field's validation error, empty when the value passes.
func (s *Session) SetAnswer(ctx context.Context, questionIndex int, value any) (fieldError string, prompt *EndSurveyPrompt, err error) {
	if questionIndex < 0 || questionIndex >= len(s.pageQuestions) {
		return "", nil, fmt.Errorf("question index out of range: %d", questionIndex)
	}
	question := &s.pageQuestions[questionIndex]

	response, ok := s.responses[question.ID]
	if !ok {
		response = surveyengine.Response{
			QuestionID: question.ID,
			Name:       question.Name,
		}
	}
	// keep the denormalized name in sync at write time
	response.Name = question.Name

	if blob, isBlob := value.([]byte); isBlob {
		response.PendingBlob = blob
		response.Value = nil
	} else {
		response.Value = value
		response.PendingBlob = nil
	}
	s.responses[question.ID] = response

	answerContext := surveyengine.BuildAnswerContext(s.allQuestions, s.responses)

	if s.pendingEnd == nil {
		if condition, matched := s.endResolver.Resolve(answerContext); matched {
			s.pendingEnd = &EndSurveyPrompt{
				QuestionID: question.ID,
				Condition:  condition,
			}
		}
	}

	if s.evaluator.IsVisible(*question, s.allQuestions, answerContext) {
		question.Error = surveyengine.ValidateField(*question, s.answerForValidation(question.ID))
	} else {
		question.Error = ""
	}

	return question.Error, s.pendingEnd, nil
}

// answerForValidation prefers a not-yet-uploaded blob over the stored value,
// so a freshly signed field counts as answered.
func (s *Session) answerForValidation(questionID string) any {
	response, ok := s.responses[questionID]
	if !ok {
		return nil
	}
	if len(response.PendingBlob) > 0 {
		return response.PendingBlob
	}
	return response.Value
}

// PersistAnswers flushes the in-memory answer set, uploading pending answer
// files first. Used by callers that rebuild the session per request and can
// not wait for a page submit.
func (s *Session) PersistAnswers(ctx context.Context) error {
	if err := s.beginTransition(); err != nil {
		return err
	}
	defer s.endTransition()

	return s.persistResponses(ctx)
}

// RecallEndSurveyPrompt re-derives a pending end-of-survey prompt for a
// session rebuilt from the stores, where the in-memory prompt of the answer
// change is gone. Reports whether a condition still matches.
func (s *Session) RecallEndSurveyPrompt(questionID string) bool {
	answerContext := surveyengine.BuildAnswerContext(s.allQuestions, s.responses)
	condition, matched := s.endResolver.Resolve(answerContext)
	if !matched {
		return false
	}
	s.pendingEnd = &EndSurveyPrompt{
		QuestionID: questionID,
		Condition:  condition,
	}
	return true
}

// ConfirmEndSurvey persists the answers collected so far and marks the
// survey completed, without advancing to any further page. The settings
// write happens last.
func (s *Session) ConfirmEndSurvey(ctx context.Context) error {
	if s.pendingEnd == nil {
		return errors.New("no end-of-survey prompt is pending")
	}
	if err := s.beginTransition(); err != nil {
		return err
	}
	defer s.endTransition()

	if err := s.persistResponses(ctx); err != nil {
		return err
	}
	s.pendingEnd = nil
	return s.complete(ctx)
}

// DeclineEndSurvey clears the answer that triggered the prompt so the
// respondent can pick something else; the survey continues unchanged.
func (s *Session) DeclineEndSurvey() error {
	if s.pendingEnd == nil {
		return errors.New("no end-of-survey prompt is pending")
	}

	response, ok := s.responses[s.pendingEnd.QuestionID]
	if !ok {
		response = surveyengine.Response{QuestionID: s.pendingEnd.QuestionID}
	}
	response.Value = nil
	response.PendingBlob = nil
	s.responses[s.pendingEnd.QuestionID] = response

	for i := range s.pageQuestions {
		if s.pageQuestions[i].ID == s.pendingEnd.QuestionID {
			s.pageQuestions[i].Error = ""
			// restore the response's name if the shell was just created
			if response.Name == "" {
				response.Name = s.pageQuestions[i].Name
				s.responses[s.pendingEnd.QuestionID] = response
			}
			break
		}
	}

	s.pendingEnd = nil
	return nil
}

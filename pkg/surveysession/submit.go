package surveysession

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
	"github.com/progress-tracker/survey-backend/pkg/utils"
)

var consentStepRegex = regexp.MustCompile(`(?i)pt_signature|confirm|consent`)

// SubmitPage navigates away from the current page. Forward transitions
// validate every visible question, upload pending answer files, persist the
// full answer set and only then advance - or complete the survey on the last
// page. Backward transitions reload the previous page without validation.
func (s *Session) SubmitPage(ctx context.Context, dir Direction) error {
	if err := s.beginTransition(); err != nil {
		return err
	}
	defer s.endTransition()

	if dir == DIRECTION_BACKWARD {
		if s.currentPage > 1 {
			return s.openPage(ctx, s.currentPage-1, DIRECTION_BACKWARD)
		}
		return nil
	}

	if err := s.validateCurrentPage(); err != nil {
		return err
	}

	if err := s.persistResponses(ctx); err != nil {
		return err
	}

	s.generateConsentAfterSubmit(ctx)

	if s.currentPage < s.settings.TotalPages {
		return s.openPage(ctx, s.currentPage+1, DIRECTION_FORWARD)
	}
	return s.complete(ctx)
}

// validateCurrentPage revalidates every question on the page: visible ones
// against their rules, hidden ones always back to no error so stale errors
// can not block navigation. The first failure is returned.
func (s *Session) validateCurrentPage() error {
	answerContext := surveyengine.BuildAnswerContext(s.allQuestions, s.responses)

	var firstInvalid *ValidationError
	for i := range s.pageQuestions {
		question := &s.pageQuestions[i]

		if s.evaluator.IsVisible(*question, s.allQuestions, answerContext) {
			question.Error = surveyengine.ValidateField(*question, s.answerForValidation(question.ID))
		} else {
			question.Error = ""
		}

		if question.Error != "" && firstInvalid == nil {
			firstInvalid = &ValidationError{
				QuestionID: question.ID,
				Message:    question.Error,
			}
		}
	}

	if firstInvalid != nil {
		return firstInvalid
	}
	return nil
}

// persistResponses uploads pending answer files, rewrites their values to
// the returned storage paths and upserts the merged answer set. An upload
// failure aborts before anything is written.
func (s *Session) persistResponses(ctx context.Context) error {
	stored, err := s.deps.Responses.GetResponses(ctx, s.respondentID)
	if err != nil {
		return fmt.Errorf("failed to fetch stored responses: %w", err)
	}
	if stored == nil {
		stored = map[string]surveyengine.Response{}
	}

	for id, response := range s.responses {
		if len(response.PendingBlob) > 0 {
			path := fmt.Sprintf("responses/%s/%s", s.respondentID, id)
			contentType := http.DetectContentType(response.PendingBlob)

			storagePath, err := s.deps.Blobs.Upload(ctx, path, response.PendingBlob, contentType)
			if err != nil {
				return &UploadError{QuestionID: id, Err: err}
			}
			response.Value = storagePath
			response.PendingBlob = nil
			s.responses[id] = response
		}
		stored[id] = response
	}

	if err := s.deps.Responses.SaveResponses(ctx, s.respondentID, stored); err != nil {
		return fmt.Errorf("failed to persist responses: %w", err)
	}
	return nil
}

// generateConsentAfterSubmit re-renders the consent document when the just
// submitted page contained signature or consent confirmation fields and
// stores its path on the consent-file question. Failures only log; the
// submission itself already succeeded.
func (s *Session) generateConsentAfterSubmit(ctx context.Context) {
	if s.deps.Consent == nil {
		return
	}

	hasConsentStep := false
	for _, question := range s.pageQuestions {
		if consentStepRegex.MatchString(question.Name) {
			hasConsentStep = true
			break
		}
	}
	if !hasConsentStep {
		return
	}

	storagePath, err := s.deps.Consent.Generate(ctx, s.respondentID, s.responses)
	if err != nil {
		slog.Error("error generating consent document after submit", slog.String("error", err.Error()), slog.String("respondentID", s.respondentID))
		return
	}

	for _, question := range s.allQuestions {
		if !utils.ContainsString(ConsentFileFieldAliases, question.Name) {
			continue
		}

		response := surveyengine.Response{
			QuestionID: question.ID,
			Name:       question.Name,
			Value:      storagePath,
		}
		if url, err := s.deps.Blobs.DownloadURL(ctx, storagePath); err != nil {
			slog.Error("error resolving consent document URL", slog.String("error", err.Error()), slog.String("storagePath", storagePath))
		} else {
			response.DownloadURL = url
		}
		s.responses[question.ID] = response

		if err := s.deps.Responses.SaveResponses(ctx, s.respondentID, map[string]surveyengine.Response{question.ID: response}); err != nil {
			slog.Error("error persisting consent document answer", slog.String("error", err.Error()), slog.String("respondentID", s.respondentID))
		}
		return
	}
}

// Reopen turns a completed survey editable again, restarting at page 1. The
// settings write is the last write of the transition.
func (s *Session) Reopen(ctx context.Context) error {
	if !s.settings.SurveyCompleted {
		return nil
	}
	if err := s.beginTransition(); err != nil {
		return err
	}
	defer s.endTransition()

	questions, err := s.deps.Catalog.FetchQuestions(ctx, s.respondentID)
	if err != nil {
		return fmt.Errorf("failed to fetch questions: %w", err)
	}
	responses, err := s.deps.Responses.GetResponses(ctx, s.respondentID)
	if err != nil {
		return fmt.Errorf("failed to fetch responses: %w", err)
	}
	if responses == nil {
		responses = map[string]surveyengine.Response{}
	}

	s.allQuestions = questions
	s.responses = responses
	s.settings.SurveyCompleted = false

	if err := s.openPage(ctx, 1, DIRECTION_FORWARD); err != nil {
		return err
	}

	return s.deps.Settings.SaveSettings(ctx, s.respondentID, s.settings)
}

// SetLanguage switches the active language and refreshes the current page's
// labels in place; the page number and the collected answers are untouched.
func (s *Session) SetLanguage(ctx context.Context, language string) error {
	if language != surveyengine.LANGUAGE_EN && language != surveyengine.LANGUAGE_FR {
		return fmt.Errorf("unsupported language: %s", language)
	}
	if s.settings.Language == language {
		return nil
	}
	s.settings.Language = language

	// re-template from the pristine catalog copies; options re-parse on read
	pageQuestions := s.questionsForPage(s.currentPage)
	surveyengine.ApplyLabelTemplates(pageQuestions, s.responses)
	for i := range pageQuestions {
		for _, previous := range s.pageQuestions {
			if previous.ID == pageQuestions[i].ID {
				pageQuestions[i].Error = previous.Error
				pageQuestions[i].DownloadURL = previous.DownloadURL
				break
			}
		}
	}
	s.pageQuestions = pageQuestions

	return s.deps.Settings.SaveSettings(ctx, s.respondentID, s.settings)
}

package surveysession

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/progress-tracker/survey-backend/pkg/extraction"
	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
)

// ApplyExtraction prefills answers from a document-extraction result and
// persists the changed set. The current page is re-templated so prefilled
// values show up immediately. Returns how many answers were set.
func (s *Session) ApplyExtraction(ctx context.Context, extracted map[string]string) (int, error) {
	if err := s.beginTransition(); err != nil {
		return 0, err
	}
	defer s.endTransition()

	changed := extraction.Apply(extracted, s.allQuestions, s.responses, s.settings.Language)
	if changed == 0 {
		return 0, nil
	}

	if err := s.deps.Responses.SaveResponses(ctx, s.respondentID, s.responses); err != nil {
		return changed, fmt.Errorf("failed to persist extracted answers: %w", err)
	}
	slog.Info("applied document extraction", slog.Int("answersSet", changed), slog.String("respondentID", s.respondentID))

	pageQuestions := s.questionsForPage(s.currentPage)
	surveyengine.ApplyLabelTemplates(pageQuestions, s.responses)
	s.pageQuestions = pageQuestions
	return changed, nil
}

package surveysession

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
	"github.com/progress-tracker/survey-backend/pkg/utils"
)

// Session drives one respondent's questionnaire: which page is current, what
// is answered so far and when the survey counts as completed. Engine calls
// are synchronous and pure; all I/O goes through the injected collaborators
// and is strictly sequenced per transition. Only one transition may be in
// flight at a time.
type Session struct {
	mu       sync.Mutex
	inFlight bool

	respondentID string
	deps         Deps

	evaluator   *surveyengine.Evaluator
	endResolver *surveyengine.EndSurveyResolver

	// pristine catalog copy; page views are templated copies of its entries
	allQuestions  []surveyengine.Question
	pageQuestions []surveyengine.Question
	responses     map[string]surveyengine.Response
	settings      surveyengine.Settings
	currentPage   int
	pendingEnd    *EndSurveyPrompt
	loaded        bool
}

func NewSession(respondentID string, deps Deps, config Config) *Session {
	evaluator := surveyengine.NewEvaluator()
	return &Session{
		respondentID: respondentID,
		deps:         deps,
		evaluator:    evaluator,
		endResolver:  surveyengine.NewEndSurveyResolver(evaluator, config.EndSurveyConditions),
		responses:    map[string]surveyengine.Response{},
		settings:     surveyengine.DefaultSettings(),
	}
}

func (s *Session) beginTransition() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrTransitionInFlight
	}
	s.inFlight = true
	return nil
}

func (s *Session) endTransition() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
}

// Load performs the initial fetch and resumes at the stored page. An empty
// catalog triggers an upstream import, then the bundled fallback set; if both
// leave the catalog empty, ErrCatalogEmpty is returned and the session stays
// in a retryable state.
func (s *Session) Load(ctx context.Context) error {
	if err := s.beginTransition(); err != nil {
		return err
	}
	defer s.endTransition()

	settings, err := s.deps.Settings.GetSettings(ctx, s.respondentID)
	if err != nil {
		return fmt.Errorf("failed to fetch settings: %w", err)
	}
	s.settings = settings

	questions, err := s.deps.Catalog.FetchQuestions(ctx, s.respondentID)
	if err != nil {
		return fmt.Errorf("failed to fetch questions: %w", err)
	}

	if len(questions) == 0 {
		slog.Info("question catalog is empty, importing from upstream", slog.String("respondentID", s.respondentID))

		if importErr := s.deps.Catalog.ImportForRespondent(ctx, s.respondentID); importErr != nil {
			slog.Error("failed to import questions from upstream", slog.String("error", importErr.Error()), slog.String("respondentID", s.respondentID))

			if s.deps.FallbackQuestions != nil {
				questions = s.deps.FallbackQuestions()
				if len(questions) > 0 {
					// keep the language the respondent registered with
					s.settings.TotalPages = maxPage(questions)
					if s.settings.ResumePage > s.settings.TotalPages {
						s.settings.ResumePage = s.settings.TotalPages
					}
					slog.Info("using bundled fallback question set", slog.Int("totalPages", s.settings.TotalPages))
				}
			}
		} else {
			questions, err = s.deps.Catalog.FetchQuestions(ctx, s.respondentID)
			if err != nil {
				return fmt.Errorf("failed to fetch questions after import: %w", err)
			}
			settings, err = s.deps.Settings.GetSettings(ctx, s.respondentID)
			if err != nil {
				return fmt.Errorf("failed to fetch settings after import: %w", err)
			}
			s.settings = settings
		}
	}

	s.allQuestions = questions

	responses, err := s.deps.Responses.GetResponses(ctx, s.respondentID)
	if err != nil {
		return fmt.Errorf("failed to fetch responses: %w", err)
	}
	if responses == nil {
		responses = map[string]surveyengine.Response{}
	}
	s.responses = responses
	s.loaded = true

	if len(questions) == 0 {
		s.currentPage = s.settings.ResumePage
		return ErrCatalogEmpty
	}

	return s.openPage(ctx, s.settings.ResumePage, DIRECTION_FORWARD)
}

// openPage prepares a page for display: consent document, file download
// URLs, label templating and the skip rule for pages where every question is
// conditionally hidden.
func (s *Session) openPage(ctx context.Context, page int, dir Direction) error {
	if page < 1 {
		page = 1
	}

	pageQuestions := s.questionsForPage(page)

	s.resolveConsentDocument(ctx, pageQuestions)
	s.resolveFileAnswers(ctx, pageQuestions)

	surveyengine.ApplyLabelTemplates(pageQuestions, s.responses)

	answerContext := surveyengine.BuildAnswerContext(s.allQuestions, s.responses)
	visibleCount := s.evaluator.CountVisible(pageQuestions, s.allQuestions, answerContext)

	// Skip only if the page has questions but all are hidden by conditions.
	// A page without any catalog entries is shown as an explicit empty state.
	if visibleCount == 0 && len(pageQuestions) > 0 {
		slog.Debug("skipping page without visible questions", slog.Int("page", page), slog.String("direction", string(dir)))
		if dir == DIRECTION_BACKWARD {
			if page > 1 {
				return s.openPage(ctx, page-1, dir)
			}
		} else {
			if page < s.settings.TotalPages {
				return s.openPage(ctx, page+1, dir)
			}
			return s.complete(ctx)
		}
	}

	s.pageQuestions = pageQuestions
	s.currentPage = page
	s.pendingEnd = nil

	if s.settings.ResumePage != page {
		s.settings.ResumePage = page
		if err := s.deps.Settings.SaveSettings(ctx, s.respondentID, s.settings); err != nil {
			slog.Error("failed to persist resume page", slog.String("error", err.Error()), slog.String("respondentID", s.respondentID))
		}
	}
	return nil
}

// complete marks the survey finished. The settings write is the last write of
// the transition; on failure the completion flag is rolled back so the
// transition can be retried.
func (s *Session) complete(ctx context.Context) error {
	s.settings.SurveyCompleted = true
	if err := s.deps.Settings.SaveSettings(ctx, s.respondentID, s.settings); err != nil {
		s.settings.SurveyCompleted = false
		return fmt.Errorf("failed to persist completion: %w", err)
	}
	return nil
}

func (s *Session) questionsForPage(page int) []surveyengine.Question {
	questions := []surveyengine.Question{}
	for _, question := range s.allQuestions {
		if question.Page == page {
			questions = append(questions, question)
		}
	}
	return questions
}

// resolveConsentDocument regenerates the consent document when the page
// carries the consent-file question and records its storage path as that
// question's answer. Failures only log; the page still renders.
func (s *Session) resolveConsentDocument(ctx context.Context, pageQuestions []surveyengine.Question) {
	if s.deps.Consent == nil {
		return
	}

	for i := range pageQuestions {
		question := &pageQuestions[i]
		if !utils.ContainsString(ConsentFileFieldAliases, question.Name) {
			continue
		}

		storagePath, err := s.deps.Consent.Generate(ctx, s.respondentID, s.responses)
		if err != nil {
			slog.Error("error generating consent document", slog.String("error", err.Error()), slog.String("respondentID", s.respondentID))
			return
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
			question.DownloadURL = url
		}
		s.responses[question.ID] = response
		return
	}
}

// resolveFileAnswers attaches download URLs to file-bearing questions whose
// answers already live in the blob store.
func (s *Session) resolveFileAnswers(ctx context.Context, pageQuestions []surveyengine.Question) {
	for i := range pageQuestions {
		question := &pageQuestions[i]
		if !question.HasFileValue() {
			continue
		}
		response, ok := s.responses[question.ID]
		if !ok {
			continue
		}
		storagePath := surveyengine.ValueToString(response.Value)
		if storagePath == "" {
			continue
		}
		url, err := s.deps.Blobs.DownloadURL(ctx, storagePath)
		if err != nil {
			slog.Error("error resolving file answer URL", slog.String("error", err.Error()), slog.String("storagePath", storagePath))
			continue
		}
		response.DownloadURL = url
		s.responses[question.ID] = response
		question.DownloadURL = url
	}
}

func maxPage(questions []surveyengine.Question) int {
	max := 1
	for _, question := range questions {
		if question.Page > max {
			max = question.Page
		}
	}
	return max
}

func (s *Session) CurrentPage() int {
	return s.currentPage
}

func (s *Session) Settings() surveyengine.Settings {
	return s.settings
}

func (s *Session) PendingEndPrompt() *EndSurveyPrompt {
	return s.pendingEnd
}

// CurrentPageQuestions returns the templated questions of the current page,
// including transient validation errors.
func (s *Session) CurrentPageQuestions() []surveyengine.Question {
	questions := make([]surveyengine.Question, len(s.pageQuestions))
	copy(questions, s.pageQuestions)
	return questions
}

// VisibleQuestions filters the current page down to what the respondent
// actually sees.
func (s *Session) VisibleQuestions() []surveyengine.Question {
	answerContext := surveyengine.BuildAnswerContext(s.allQuestions, s.responses)
	visible := []surveyengine.Question{}
	for _, question := range s.pageQuestions {
		if s.evaluator.IsVisible(question, s.allQuestions, answerContext) {
			visible = append(visible, question)
		}
	}
	return visible
}

// CurrentAnswerFor returns the stored value for a question, nil while
// unanswered.
func (s *Session) CurrentAnswerFor(questionID string) any {
	if response, ok := s.responses[questionID]; ok {
		return response.Value
	}
	return nil
}

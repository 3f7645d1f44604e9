package surveysession

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
)

type fakeCatalog struct {
	questions  []surveyengine.Question
	importSet  []surveyengine.Question
	importErr  error
	importRuns int
}

func (c *fakeCatalog) FetchQuestions(ctx context.Context, respondentID string) ([]surveyengine.Question, error) {
	questions := make([]surveyengine.Question, len(c.questions))
	copy(questions, c.questions)
	return questions, nil
}

func (c *fakeCatalog) ImportForRespondent(ctx context.Context, respondentID string) error {
	c.importRuns++
	if c.importErr != nil {
		return c.importErr
	}
	c.questions = c.importSet
	return nil
}

type fakeResponseStore struct {
	stored    map[string]surveyengine.Response
	saveErr   error
	saveCalls int
}

func (r *fakeResponseStore) GetResponses(ctx context.Context, respondentID string) (map[string]surveyengine.Response, error) {
	out := map[string]surveyengine.Response{}
	for id, response := range r.stored {
		out[id] = response
	}
	return out, nil
}

func (r *fakeResponseStore) SaveResponses(ctx context.Context, respondentID string, responses map[string]surveyengine.Response) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saveCalls++
	if r.stored == nil {
		r.stored = map[string]surveyengine.Response{}
	}
	for id, response := range responses {
		r.stored[id] = response
	}
	return nil
}

type fakeSettingsStore struct {
	settings  surveyengine.Settings
	saveErr   error
	saveCalls int
}

func (s *fakeSettingsStore) GetSettings(ctx context.Context, respondentID string) (surveyengine.Settings, error) {
	return s.settings, nil
}

func (s *fakeSettingsStore) SaveSettings(ctx context.Context, respondentID string, settings surveyengine.Settings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saveCalls++
	s.settings = settings
	return nil
}

type fakeBlobStore struct {
	objects   map[string][]byte
	uploadErr error
}

func (b *fakeBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if b.uploadErr != nil {
		return "", b.uploadErr
	}
	if b.objects == nil {
		b.objects = map[string][]byte{}
	}
	b.objects[path] = data
	return path, nil
}

func (b *fakeBlobStore) Fetch(ctx context.Context, storagePath string) ([]byte, error) {
	data, ok := b.objects[storagePath]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (b *fakeBlobStore) DownloadURL(ctx context.Context, storagePath string) (string, error) {
	return "https://blobs.example.com/" + storagePath, nil
}

type fakeConsentGenerator struct {
	path  string
	err   error
	calls int
}

func (c *fakeConsentGenerator) Generate(ctx context.Context, respondentID string, responses map[string]surveyengine.Response) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.path, nil
}

func testQuestion(id string, page int, name, questionType string) surveyengine.Question {
	return surveyengine.Question{
		ID:      id,
		Page:    page,
		Name:    name,
		Type:    questionType,
		LabelEN: "Label for " + name,
		LabelFR: "Libellé pour " + name,
	}
}

func testDeps(catalogQuestions []surveyengine.Question) (Deps, *fakeCatalog, *fakeResponseStore, *fakeSettingsStore, *fakeBlobStore) {
	catalog := &fakeCatalog{questions: catalogQuestions}
	responses := &fakeResponseStore{}
	settings := &fakeSettingsStore{settings: surveyengine.DefaultSettings()}
	blobs := &fakeBlobStore{}
	return Deps{
		Catalog:   catalog,
		Responses: responses,
		Settings:  settings,
		Blobs:     blobs,
	}, catalog, responses, settings, blobs
}

func TestSessionLoad(t *testing.T) {
	t.Run("resumes at the stored page", func(t *testing.T) {
		questions := []surveyengine.Question{
			testQuestion("q1", 1, "pt_name", surveyengine.QUESTION_TYPE_TEXT),
			testQuestion("q2", 2, "pt_city", surveyengine.QUESTION_TYPE_TEXT),
		}
		deps, _, _, settingsStore, _ := testDeps(questions)
		settingsStore.settings.TotalPages = 2
		settingsStore.settings.ResumePage = 2

		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if session.CurrentPage() != 2 {
			t.Errorf("unexpected page: %d", session.CurrentPage())
		}
		if len(session.CurrentPageQuestions()) != 1 || session.CurrentPageQuestions()[0].ID != "q2" {
			t.Errorf("unexpected page questions: %v", session.CurrentPageQuestions())
		}
	})

	t.Run("imports from upstream when the catalog is empty", func(t *testing.T) {
		deps, catalog, _, _, _ := testDeps(nil)
		catalog.importSet = []surveyengine.Question{
			testQuestion("q1", 1, "pt_name", surveyengine.QUESTION_TYPE_TEXT),
		}

		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if catalog.importRuns != 1 {
			t.Errorf("unexpected import count: %d", catalog.importRuns)
		}
		if len(session.CurrentPageQuestions()) != 1 {
			t.Errorf("page should carry the imported question")
		}
	})

	t.Run("falls back to the bundled set when the import fails", func(t *testing.T) {
		deps, catalog, _, settingsStore, _ := testDeps(nil)
		catalog.importErr = errors.New("upstream unreachable")
		settingsStore.settings.Language = surveyengine.LANGUAGE_FR
		deps.FallbackQuestions = func() []surveyengine.Question {
			return []surveyengine.Question{
				testQuestion("f1", 1, "pt_name", surveyengine.QUESTION_TYPE_TEXT),
				testQuestion("f2", 3, "pt_city", surveyengine.QUESTION_TYPE_TEXT),
			}
		}

		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if session.Settings().TotalPages != 3 {
			t.Errorf("total pages should be recomputed from the fallback set, got %d", session.Settings().TotalPages)
		}
		if session.Settings().Language != surveyengine.LANGUAGE_FR {
			t.Errorf("registered language should survive the fallback, got %q", session.Settings().Language)
		}
	})

	t.Run("fallback clamps the resume page to its own page count", func(t *testing.T) {
		deps, catalog, _, settingsStore, _ := testDeps(nil)
		catalog.importErr = errors.New("upstream unreachable")
		settingsStore.settings.TotalPages = 7
		settingsStore.settings.ResumePage = 7
		deps.FallbackQuestions = func() []surveyengine.Question {
			return []surveyengine.Question{
				testQuestion("f1", 1, "pt_name", surveyengine.QUESTION_TYPE_TEXT),
				testQuestion("f2", 2, "pt_city", surveyengine.QUESTION_TYPE_TEXT),
			}
		}

		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if session.CurrentPage() != 2 {
			t.Errorf("expected resume on the fallback's last page, got %d", session.CurrentPage())
		}
	})

	t.Run("reports an empty catalog when import and fallback yield nothing", func(t *testing.T) {
		deps, catalog, _, _, _ := testDeps(nil)
		catalog.importErr = errors.New("upstream unreachable")

		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); !errors.Is(err, ErrCatalogEmpty) {
			t.Errorf("expected ErrCatalogEmpty, got %v", err)
		}
	})

	t.Run("rejects concurrent transitions", func(t *testing.T) {
		deps, _, _, _, _ := testDeps(nil)
		session := NewSession("resp-1", deps, Config{})
		session.inFlight = true
		if err := session.Load(context.Background()); !errors.Is(err, ErrTransitionInFlight) {
			t.Errorf("expected ErrTransitionInFlight, got %v", err)
		}
	})
}

func TestSubmitPageValidation(t *testing.T) {
	required := testQuestion("q1", 1, "pt_name", surveyengine.QUESTION_TYPE_TEXT)
	required.IsRequired = true
	alsoRequired := testQuestion("q2", 1, "pt_email", surveyengine.QUESTION_TYPE_TEXT)
	alsoRequired.IsRequired = true

	t.Run("blocks on the first invalid question", func(t *testing.T) {
		deps, _, responseStore, _, _ := testDeps([]surveyengine.Question{required, alsoRequired})
		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		err := session.SubmitPage(context.Background(), DIRECTION_FORWARD)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("expected a validation error, got %v", err)
			return
		}
		if validationErr.QuestionID != "q1" || validationErr.Message != "Required" {
			t.Errorf("unexpected validation error: %+v", validationErr)
		}
		if responseStore.saveCalls != 0 {
			t.Errorf("nothing may be persisted while validation fails")
		}
	})

	t.Run("hidden questions never block navigation", func(t *testing.T) {
		hidden := testQuestion("q2", 1, "pt_email", surveyengine.QUESTION_TYPE_TEXT)
		hidden.IsRequired = true
		hidden.DisplayCondition = "pt_name == 'show-me'"

		deps, _, _, settingsStore, _ := testDeps([]surveyengine.Question{required, hidden})
		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if _, _, err := session.SetAnswer(context.Background(), 0, "Alex"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if err := session.SubmitPage(context.Background(), DIRECTION_FORWARD); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !settingsStore.settings.SurveyCompleted {
			t.Errorf("submitting the last page should complete the survey")
		}
	})
}

func TestSubmitPageNavigation(t *testing.T) {
	catalogQuestions := []surveyengine.Question{
		testQuestion("q1", 1, "pt_name", surveyengine.QUESTION_TYPE_TEXT),
		func() surveyengine.Question {
			q := testQuestion("q2", 2, "pt_details", surveyengine.QUESTION_TYPE_TEXT)
			q.DisplayCondition = "pt_name == 'never-matches'"
			return q
		}(),
		testQuestion("q3", 3, "pt_city", surveyengine.QUESTION_TYPE_TEXT),
	}

	newLoadedSession := func(t *testing.T) (*Session, *fakeResponseStore, *fakeSettingsStore) {
		deps, _, responseStore, settingsStore, _ := testDeps(catalogQuestions)
		settingsStore.settings.TotalPages = 3
		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return session, responseStore, settingsStore
	}

	t.Run("skips a page whose questions are all hidden", func(t *testing.T) {
		session, responseStore, _ := newLoadedSession(t)
		if _, _, err := session.SetAnswer(context.Background(), 0, "Alex"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if err := session.SubmitPage(context.Background(), DIRECTION_FORWARD); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if session.CurrentPage() != 3 {
			t.Errorf("expected page 3, got %d", session.CurrentPage())
		}
		if responseStore.stored["q1"].Value != "Alex" {
			t.Errorf("answer was not persisted: %+v", responseStore.stored["q1"])
		}
	})

	t.Run("skips the hidden page backwards too", func(t *testing.T) {
		session, _, _ := newLoadedSession(t)
		if _, _, err := session.SetAnswer(context.Background(), 0, "Alex"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := session.SubmitPage(context.Background(), DIRECTION_FORWARD); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if err := session.SubmitPage(context.Background(), DIRECTION_BACKWARD); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if session.CurrentPage() != 1 {
			t.Errorf("expected page 1, got %d", session.CurrentPage())
		}
	})

	t.Run("backward from the first page is a no-op", func(t *testing.T) {
		session, _, _ := newLoadedSession(t)
		if err := session.SubmitPage(context.Background(), DIRECTION_BACKWARD); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if session.CurrentPage() != 1 {
			t.Errorf("expected page 1, got %d", session.CurrentPage())
		}
	})

	t.Run("persists the resume page on forward navigation", func(t *testing.T) {
		session, _, settingsStore := newLoadedSession(t)
		if _, _, err := session.SetAnswer(context.Background(), 0, "Alex"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := session.SubmitPage(context.Background(), DIRECTION_FORWARD); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if settingsStore.settings.ResumePage != 3 {
			t.Errorf("resume page not persisted, got %d", settingsStore.settings.ResumePage)
		}
	})
}

func TestSubmitPageUploads(t *testing.T) {
	signature := testQuestion("q-sig", 1, "upload_report", surveyengine.QUESTION_TYPE_SIGN)

	t.Run("uploads pending blobs and rewrites their values", func(t *testing.T) {
		deps, _, responseStore, _, blobStore := testDeps([]surveyengine.Question{signature})
		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if _, _, err := session.SetAnswer(context.Background(), 0, []byte("signature bytes")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := session.SubmitPage(context.Background(), DIRECTION_FORWARD); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		wantPath := "responses/resp-1/q-sig"
		if string(blobStore.objects[wantPath]) != "signature bytes" {
			t.Errorf("blob was not uploaded to %s", wantPath)
		}
		stored := responseStore.stored["q-sig"]
		if stored.Value != wantPath {
			t.Errorf("value was not rewritten to the storage path: %v", stored.Value)
		}
		if len(stored.PendingBlob) != 0 {
			t.Errorf("pending blob must be cleared after upload")
		}
	})

	t.Run("an upload failure aborts before anything is persisted", func(t *testing.T) {
		deps, _, responseStore, _, blobStore := testDeps([]surveyengine.Question{signature})
		blobStore.uploadErr = errors.New("bucket unavailable")
		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if _, _, err := session.SetAnswer(context.Background(), 0, []byte("signature bytes")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		err := session.SubmitPage(context.Background(), DIRECTION_FORWARD)
		var uploadErr *UploadError
		if !errors.As(err, &uploadErr) {
			t.Errorf("expected an upload error, got %v", err)
		}
		if responseStore.saveCalls != 0 {
			t.Errorf("responses must not be persisted after a failed upload")
		}
	})
}

func TestEndSurveyFlow(t *testing.T) {
	contact := testQuestion("q-contact", 1, "pt_contact_request", surveyengine.QUESTION_TYPE_RADIO)
	contact.OptionsEN = "Yes||No"
	other := testQuestion("q-city", 1, "pt_city", surveyengine.QUESTION_TYPE_TEXT)

	newLoadedSession := func(t *testing.T) (*Session, *fakeResponseStore, *fakeSettingsStore) {
		deps, _, responseStore, settingsStore, _ := testDeps([]surveyengine.Question{contact, other})
		settingsStore.settings.TotalPages = 5
		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return session, responseStore, settingsStore
	}

	t.Run("a matching answer raises a prompt", func(t *testing.T) {
		session, _, _ := newLoadedSession(t)
		_, prompt, err := session.SetAnswer(context.Background(), 0, "Yes")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if prompt == nil {
			t.Errorf("expected an end-of-survey prompt")
			return
		}
		if prompt.QuestionID != "q-contact" {
			t.Errorf("unexpected prompt question: %s", prompt.QuestionID)
		}
		if !strings.Contains(prompt.Condition, "pt_contact_request") {
			t.Errorf("unexpected prompt condition: %s", prompt.Condition)
		}
	})

	t.Run("a non-matching answer raises no prompt", func(t *testing.T) {
		session, _, _ := newLoadedSession(t)
		_, prompt, err := session.SetAnswer(context.Background(), 0, "No")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if prompt != nil {
			t.Errorf("unexpected prompt: %+v", prompt)
		}
	})

	t.Run("confirming completes without advancing", func(t *testing.T) {
		session, responseStore, settingsStore := newLoadedSession(t)
		if _, _, err := session.SetAnswer(context.Background(), 0, "Yes"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if err := session.ConfirmEndSurvey(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !settingsStore.settings.SurveyCompleted {
			t.Errorf("survey should be completed")
		}
		if session.CurrentPage() != 1 {
			t.Errorf("confirming must not advance the page, got %d", session.CurrentPage())
		}
		if responseStore.stored["q-contact"].Value != "Yes" {
			t.Errorf("the triggering answer must be persisted")
		}
		if session.PendingEndPrompt() != nil {
			t.Errorf("prompt should be cleared")
		}
	})

	t.Run("declining clears only the triggering answer", func(t *testing.T) {
		session, _, settingsStore := newLoadedSession(t)
		if _, _, err := session.SetAnswer(context.Background(), 1, "Montreal"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if _, _, err := session.SetAnswer(context.Background(), 0, "Yes"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if err := session.DeclineEndSurvey(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if session.CurrentAnswerFor("q-contact") != nil {
			t.Errorf("the triggering answer should be cleared")
		}
		if session.CurrentAnswerFor("q-city") != "Montreal" {
			t.Errorf("other answers must stay untouched")
		}
		if settingsStore.settings.SurveyCompleted {
			t.Errorf("declining must not complete the survey")
		}
		if session.PendingEndPrompt() != nil {
			t.Errorf("prompt should be cleared")
		}
	})

	t.Run("confirm without a pending prompt errors", func(t *testing.T) {
		session, _, _ := newLoadedSession(t)
		if err := session.ConfirmEndSurvey(context.Background()); err == nil {
			t.Errorf("expected an error")
		}
	})
}

func TestConsentDocument(t *testing.T) {
	consentFile := testQuestion("q-consent", 1, "confirmation_file", surveyengine.QUESTION_TYPE_FILE)
	sigField := testQuestion("q-sig", 1, "pt_signature", surveyengine.QUESTION_TYPE_SIGN)

	t.Run("regenerates the document when the consent page opens", func(t *testing.T) {
		deps, _, _, _, _ := testDeps([]surveyengine.Question{consentFile})
		generator := &fakeConsentGenerator{path: "consent/resp-1.pdf"}
		deps.Consent = generator

		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if generator.calls != 1 {
			t.Errorf("expected one generator call, got %d", generator.calls)
		}
		if session.CurrentAnswerFor("q-consent") != "consent/resp-1.pdf" {
			t.Errorf("consent storage path was not recorded")
		}
		questions := session.CurrentPageQuestions()
		if questions[0].DownloadURL != "https://blobs.example.com/consent/resp-1.pdf" {
			t.Errorf("unexpected download URL: %s", questions[0].DownloadURL)
		}
	})

	t.Run("regenerates after submitting a signature page", func(t *testing.T) {
		deps, _, responseStore, settingsStore, _ := testDeps([]surveyengine.Question{sigField, func() surveyengine.Question {
			q := consentFile
			q.Page = 2
			return q
		}()})
		settingsStore.settings.TotalPages = 2
		generator := &fakeConsentGenerator{path: "consent/resp-1.pdf"}
		deps.Consent = generator

		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if _, _, err := session.SetAnswer(context.Background(), 0, []byte("sig")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := session.SubmitPage(context.Background(), DIRECTION_FORWARD); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if responseStore.stored["q-consent"].Value != "consent/resp-1.pdf" {
			t.Errorf("consent answer was not persisted: %+v", responseStore.stored["q-consent"])
		}
	})

	t.Run("a generator failure still renders the page", func(t *testing.T) {
		deps, _, _, _, _ := testDeps([]surveyengine.Question{consentFile})
		deps.Consent = &fakeConsentGenerator{err: errors.New("renderer down")}

		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if session.CurrentPage() != 1 {
			t.Errorf("page should still open")
		}
	})
}

func TestReopen(t *testing.T) {
	questions := []surveyengine.Question{
		testQuestion("q1", 1, "pt_name", surveyengine.QUESTION_TYPE_TEXT),
	}

	t.Run("turns a completed survey editable again at page one", func(t *testing.T) {
		deps, _, _, settingsStore, _ := testDeps(questions)
		settingsStore.settings.SurveyCompleted = true
		settingsStore.settings.ResumePage = 1

		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if err := session.Reopen(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if settingsStore.settings.SurveyCompleted {
			t.Errorf("survey should be editable again")
		}
		if session.CurrentPage() != 1 {
			t.Errorf("reopen should restart at page 1, got %d", session.CurrentPage())
		}
	})

	t.Run("is a no-op on an uncompleted survey", func(t *testing.T) {
		deps, _, _, settingsStore, _ := testDeps(questions)
		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		saves := settingsStore.saveCalls

		if err := session.Reopen(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if settingsStore.saveCalls != saves {
			t.Errorf("reopen on an active survey must not write settings")
		}
	})
}

func TestSetLanguage(t *testing.T) {
	question := testQuestion("q1", 1, "pt_name", surveyengine.QUESTION_TYPE_TEXT)

	t.Run("switches the page labels in place", func(t *testing.T) {
		deps, _, _, settingsStore, _ := testDeps([]surveyengine.Question{question})
		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if err := session.SetLanguage(context.Background(), surveyengine.LANGUAGE_FR); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if settingsStore.settings.Language != surveyengine.LANGUAGE_FR {
			t.Errorf("language was not persisted")
		}
		if session.CurrentPage() != 1 {
			t.Errorf("language switches must not navigate")
		}
	})

	t.Run("rejects unsupported languages", func(t *testing.T) {
		deps, _, _, _, _ := testDeps([]surveyengine.Question{question})
		session := NewSession("resp-1", deps, Config{})
		if err := session.Load(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := session.SetLanguage(context.Background(), "de"); err == nil {
			t.Errorf("expected an error")
		}
	})
}

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/progress-tracker/survey-backend/pkg/httpclient"
	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
)

type fakeQuestionStore struct {
	stored map[string][]surveyengine.Question
}

func (s *fakeQuestionStore) GetQuestions(ctx context.Context, respondentID string) ([]surveyengine.Question, error) {
	return s.stored[respondentID], nil
}

func (s *fakeQuestionStore) ReplaceQuestions(ctx context.Context, respondentID string, questions []surveyengine.Question) error {
	if s.stored == nil {
		s.stored = map[string][]surveyengine.Question{}
	}
	s.stored[respondentID] = questions
	return nil
}

type fakeSettingsStore struct {
	settings surveyengine.Settings
}

func (s *fakeSettingsStore) GetSettings(ctx context.Context, respondentID string) (surveyengine.Settings, error) {
	return s.settings, nil
}

func (s *fakeSettingsStore) SaveSettings(ctx context.Context, respondentID string, settings surveyengine.Settings) error {
	s.settings = settings
	return nil
}

const upstreamExport = `[
	{
		"FieldID": "f-1",
		"PageNo": 1,
		"Sequence": 1,
		"FieldName": "pt_name",
		"Question_EN": "What is your name?",
		"Question_FR": "Quel est votre nom?",
		"FieldType": "Text",
		"IsRequired": true,
		"CharLimit": 120
	},
	{
		"FieldID": "f-2",
		"PageNo": 2,
		"Sequence": 2,
		"FieldName": "dx_stage",
		"Question_EN": "What stage was your diagnosis?",
		"Choices_EN": "stage_1|Stage I||stage_2|Stage II",
		"FieldType": "RADIO",
		"Format": "  ",
		"DisplayCondition": "pt_name != nil"
	},
	{
		"FieldID": "",
		"FieldName": "dangling row without id"
	}
]`

func upstreamServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/questions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(upstreamExport)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}))
}

func TestFetchUpstream(t *testing.T) {
	server := upstreamServer(t)
	defer server.Close()

	service := NewService(httpclient.ClientConfig{
		RootURL: server.URL,
		Timeout: 5 * time.Second,
	}, &fakeQuestionStore{}, &fakeSettingsStore{settings: surveyengine.DefaultSettings()})

	questions, err := service.FetchUpstream(context.Background())
	if err != nil {
		t.Errorf("unexpected error: %v", err)
		return
	}

	t.Run("rows without a field id are dropped", func(t *testing.T) {
		if len(questions) != 2 {
			t.Errorf("unexpected question count: %d", len(questions))
		}
	})

	t.Run("columns map onto the catalog shape", func(t *testing.T) {
		first := questions[0]
		if first.ID != "f-1" || first.Name != "pt_name" || first.Page != 1 {
			t.Errorf("unexpected question: %+v", first)
		}
		if first.Type != surveyengine.QUESTION_TYPE_TEXT {
			t.Errorf("field type should be lowercased, got %q", first.Type)
		}
		if !first.IsRequired || first.CharLimit != 120 {
			t.Errorf("unexpected validation fields: %+v", first)
		}
	})

	t.Run("type and format are normalized", func(t *testing.T) {
		second := questions[1]
		if second.Type != surveyengine.QUESTION_TYPE_RADIO {
			t.Errorf("unexpected type: %q", second.Type)
		}
		if second.Format != "" {
			t.Errorf("blank format should normalize to empty, got %q", second.Format)
		}
		if second.DisplayCondition != "pt_name != nil" {
			t.Errorf("display condition must pass through unchanged, got %q", second.DisplayCondition)
		}
	})
}

func TestImportForRespondent(t *testing.T) {
	server := upstreamServer(t)
	defer server.Close()

	questionStore := &fakeQuestionStore{}
	settingsStore := &fakeSettingsStore{settings: surveyengine.DefaultSettings()}
	service := NewService(httpclient.ClientConfig{
		RootURL: server.URL,
		Timeout: 5 * time.Second,
	}, questionStore, settingsStore)

	if err := service.ImportForRespondent(context.Background(), "resp-1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	t.Run("snapshots the catalog for the respondent", func(t *testing.T) {
		if len(questionStore.stored["resp-1"]) != 2 {
			t.Errorf("unexpected stored count: %d", len(questionStore.stored["resp-1"]))
		}
	})

	t.Run("records the imported page count", func(t *testing.T) {
		if settingsStore.settings.TotalPages != 2 {
			t.Errorf("unexpected total pages: %d", settingsStore.settings.TotalPages)
		}
	})

	t.Run("fails when the upstream is unreachable", func(t *testing.T) {
		broken := NewService(httpclient.ClientConfig{
			RootURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		}, questionStore, settingsStore)
		if err := broken.ImportForRespondent(context.Background(), "resp-1"); err == nil {
			t.Errorf("expected an error")
		}
	})
}

func TestDefaultQuestions(t *testing.T) {
	questions := DefaultQuestions()

	t.Run("carries the contact-request and consent fields", func(t *testing.T) {
		names := map[string]bool{}
		for _, question := range questions {
			names[question.Name] = true
		}
		for _, required := range []string{"pt_contact_request", "pt_signature", "confirmation_file"} {
			if !names[required] {
				t.Errorf("missing question %q", required)
			}
		}
	})

	t.Run("every question has an id and a page", func(t *testing.T) {
		for _, question := range questions {
			if question.ID == "" || question.Page < 1 {
				t.Errorf("invalid question: %+v", question)
			}
		}
	})
}

package surveysession

import (
	"context"
	"errors"
	"fmt"

	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
)

// Direction of a page transition.
type Direction string

const (
	DIRECTION_FORWARD  Direction = "f"
	DIRECTION_BACKWARD Direction = "b"
)

// Question names whose answer carries the generated consent document.
var ConsentFileFieldAliases = []string{"confirmation_file", "confirm_file"}

var (
	ErrTransitionInFlight = errors.New("another page transition is already in flight")
	ErrCatalogEmpty       = errors.New("no questions found in the catalog")
	ErrSurveyCompleted    = errors.New("survey is already completed")
)

// ValidationError blocks navigation until the offending fields are fixed. It
// carries the first invalid question so the UI can scroll to it.
type ValidationError struct {
	QuestionID string
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for question %s: %s", e.QuestionID, e.Message)
}

// UploadError aborts an in-flight page submission before anything is
// persisted; re-submitting the page retries the upload.
type UploadError struct {
	QuestionID string
	Err        error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload answer file for question %s: %v", e.QuestionID, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// EndSurveyPrompt asks the respondent to confirm early termination after an
// answer change matched an end-of-survey condition.
type EndSurveyPrompt struct {
	QuestionID string `json:"questionID"`
	Condition  string `json:"condition"`
}

// CatalogSource provides the respondent's question set and can populate it
// from the upstream catalog when it is empty.
type CatalogSource interface {
	FetchQuestions(ctx context.Context, respondentID string) ([]surveyengine.Question, error)
	ImportForRespondent(ctx context.Context, respondentID string) error
}

// ResponseStore persists answers, batched and keyed by question id.
type ResponseStore interface {
	GetResponses(ctx context.Context, respondentID string) (map[string]surveyengine.Response, error)
	SaveResponses(ctx context.Context, respondentID string, responses map[string]surveyengine.Response) error
}

// SettingsStore persists the per-respondent progress state.
type SettingsStore interface {
	GetSettings(ctx context.Context, respondentID string) (surveyengine.Settings, error)
	SaveSettings(ctx context.Context, respondentID string, settings surveyengine.Settings) error
}

// BlobStore holds uploaded and signed files.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (storagePath string, err error)
	Fetch(ctx context.Context, storagePath string) ([]byte, error)
	DownloadURL(ctx context.Context, storagePath string) (string, error)
}

// ConsentGenerator renders the consent document for a respondent's current
// answers and returns its storage path.
type ConsentGenerator interface {
	Generate(ctx context.Context, respondentID string, responses map[string]surveyengine.Response) (storagePath string, err error)
}

// Deps are the session's external collaborators. Consent may be nil when no
// consent pipeline is configured; FallbackQuestions may be nil when no bundled
// catalog exists.
type Deps struct {
	Catalog   CatalogSource
	Responses ResponseStore
	Settings  SettingsStore
	Blobs     BlobStore
	Consent   ConsentGenerator

	FallbackQuestions func() []surveyengine.Question
}

// Config tunes a session beyond its collaborators.
type Config struct {
	EndSurveyConditions []string
}

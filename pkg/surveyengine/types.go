package surveyengine

import "fmt"

// Question types as they appear in the catalog.
const (
	QUESTION_TYPE_HEADING     = "heading"
	QUESTION_TYPE_DESCRIPTIVE = "descriptive"
	QUESTION_TYPE_TEXT        = "text"
	QUESTION_TYPE_TEXTAREA    = "textarea"
	QUESTION_TYPE_DATE        = "date"
	QUESTION_TYPE_SELECT      = "select"
	QUESTION_TYPE_DROPDOWN    = "dropdown"
	QUESTION_TYPE_CHECKBOX    = "checkbox"
	QUESTION_TYPE_RADIO       = "radio"
	QUESTION_TYPE_FILE        = "file"
	QUESTION_TYPE_SLIDER      = "slider"
	QUESTION_TYPE_SIGN        = "sign"
	QUESTION_TYPE_SIGNATURE   = "signature"
	QUESTION_TYPE_CALC        = "calc"
)

// Validation format hints.
const (
	FORMAT_EMAIL  = "email"
	FORMAT_PHONE  = "phone"
	FORMAT_NUMBER = "number"
)

const (
	LANGUAGE_EN = "en"
	LANGUAGE_FR = "fr"
)

// Question is one catalog entry. Labels and option encodings are per language.
type Question struct {
	ID               string `bson:"questionID" json:"id"`
	Sequence         int    `bson:"sequence" json:"sequence"`
	Page             int    `bson:"page" json:"page"`
	Name             string `bson:"name" json:"name"`
	Type             string `bson:"type" json:"type"`
	LabelEN          string `bson:"label_en" json:"label_en"`
	LabelFR          string `bson:"label_fr" json:"label_fr"`
	OptionsEN        string `bson:"options_en" json:"options_en"`
	OptionsFR        string `bson:"options_fr" json:"options_fr"`
	IsRequired       bool   `bson:"is_required" json:"is_required"`
	CharLimit        int    `bson:"charLimit,omitempty" json:"charLimit,omitempty"`
	Format           string `bson:"format,omitempty" json:"format,omitempty"`
	DisplayCondition string `bson:"displayCondition,omitempty" json:"displayCondition,omitempty"`

	// Error is transient UI state set by validation, never persisted.
	Error string `bson:"-" json:"error,omitempty"`
	// DownloadURL is resolved for file-bearing questions when a page is opened.
	DownloadURL string `bson:"-" json:"downloadURL,omitempty"`
}

func (q Question) Label(lang string) string {
	if lang == LANGUAGE_FR {
		return q.LabelFR
	}
	return q.LabelEN
}

func (q Question) RawOptions(lang string) string {
	if lang == LANGUAGE_FR {
		return q.OptionsFR
	}
	return q.OptionsEN
}

// IsAnswerable reports whether the question collects a value at all.
func (q Question) IsAnswerable() bool {
	switch q.Type {
	case QUESTION_TYPE_HEADING, QUESTION_TYPE_DESCRIPTIVE:
		return false
	}
	return true
}

// HasFileValue reports whether the question's answer is a blob-store reference.
func (q Question) HasFileValue() bool {
	switch q.Type {
	case QUESTION_TYPE_FILE, QUESTION_TYPE_SIGN, QUESTION_TYPE_SIGNATURE:
		return true
	}
	return false
}

// Response is one respondent's value for one question. Value is nil until the
// question is first edited, then a scalar string (a storage path for file
// questions once uploaded). PendingBlob holds binary content that still has to
// be moved to the blob store before the response may be persisted.
type Response struct {
	QuestionID  string `bson:"questionID" json:"id"`
	Name        string `bson:"name" json:"name"`
	Value       any    `bson:"value" json:"value"`
	DownloadURL string `bson:"downloadURL,omitempty" json:"downloadURL,omitempty"`

	PendingBlob []byte `bson:"-" json:"-"`
}

// Settings hold the per-respondent survey progress state.
type Settings struct {
	Language        string `bson:"language" json:"language"`
	TotalPages      int    `bson:"totalPages" json:"totalPages"`
	ResumePage      int    `bson:"resumePage" json:"resumePage"`
	SurveyCompleted bool   `bson:"surveyCompleted" json:"surveyCompleted"`
}

func DefaultSettings() Settings {
	return Settings{
		Language:        LANGUAGE_EN,
		TotalPages:      1,
		ResumePage:      1,
		SurveyCompleted: false,
	}
}

// Option is one parsed entry of a question's option encoding.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ValueToString renders an answer value the way labels and validation see it:
// nil becomes the empty string.
func ValueToString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// IsEmptyValue reports whether a collected value counts as "not answered".
func IsEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case []byte:
		return len(v) == 0
	}
	return false
}

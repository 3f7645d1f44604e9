// Package catalog mirrors the upstream question catalog into the
// per-respondent store, so every respondent keeps the catalog version they
// started the survey with.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/progress-tracker/survey-backend/pkg/httpclient"
	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
)

// upstreamQuestion is one row of the upstream catalog export.
type upstreamQuestion struct {
	FieldID          string `json:"FieldID"`
	PageNo           int    `json:"PageNo"`
	Sequence         int    `json:"Sequence"`
	FieldName        string `json:"FieldName"`
	QuestionEN       string `json:"Question_EN"`
	QuestionFR       string `json:"Question_FR"`
	ChoicesEN        string `json:"Choices_EN"`
	ChoicesFR        string `json:"Choices_FR"`
	FieldType        string `json:"FieldType"`
	IsRequired       bool   `json:"IsRequired"`
	CharLimit        int    `json:"CharLimit"`
	Format           string `json:"Format"`
	DisplayCondition string `json:"DisplayCondition"`
}

// QuestionStore is the subset of the survey DB the catalog writes to.
type QuestionStore interface {
	GetQuestions(ctx context.Context, respondentID string) ([]surveyengine.Question, error)
	ReplaceQuestions(ctx context.Context, respondentID string, questions []surveyengine.Question) error
}

// SettingsStore lets the import record the imported page count.
type SettingsStore interface {
	GetSettings(ctx context.Context, respondentID string) (surveyengine.Settings, error)
	SaveSettings(ctx context.Context, respondentID string, settings surveyengine.Settings) error
}

// Service implements the session's catalog source on top of the upstream
// HTTP export and the per-respondent question store.
type Service struct {
	upstream  httpclient.ClientConfig
	questions QuestionStore
	settings  SettingsStore
}

func NewService(upstream httpclient.ClientConfig, questions QuestionStore, settings SettingsStore) *Service {
	return &Service{
		upstream:  upstream,
		questions: questions,
		settings:  settings,
	}
}

func (s *Service) FetchQuestions(ctx context.Context, respondentID string) ([]surveyengine.Question, error) {
	return s.questions.GetQuestions(ctx, respondentID)
}

// ImportForRespondent snapshots the upstream catalog for one respondent and
// updates the stored page count.
func (s *Service) ImportForRespondent(ctx context.Context, respondentID string) error {
	questions, err := s.FetchUpstream(ctx)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("upstream catalog returned no questions")
	}

	if err := s.questions.ReplaceQuestions(ctx, respondentID, questions); err != nil {
		return fmt.Errorf("failed to store imported questions: %w", err)
	}

	settings, err := s.settings.GetSettings(ctx, respondentID)
	if err != nil {
		return fmt.Errorf("failed to fetch settings: %w", err)
	}
	settings.TotalPages = totalPages(questions)
	if err := s.settings.SaveSettings(ctx, respondentID, settings); err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}

	slog.Info("imported question catalog", slog.String("respondentID", respondentID), slog.Int("questions", len(questions)), slog.Int("totalPages", settings.TotalPages))
	return nil
}

// FetchUpstream pulls the current catalog export.
func (s *Service) FetchUpstream(ctx context.Context) ([]surveyengine.Question, error) {
	var rows []upstreamQuestion
	if err := s.upstream.RunHTTPGet(ctx, "/questions", &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch upstream catalog: %w", err)
	}
	return mapUpstream(rows), nil
}

func mapUpstream(rows []upstreamQuestion) []surveyengine.Question {
	questions := make([]surveyengine.Question, 0, len(rows))
	for _, row := range rows {
		if row.FieldID == "" {
			continue
		}

		questionType := strings.ToLower(strings.TrimSpace(row.FieldType))
		if questionType == "" {
			questionType = surveyengine.QUESTION_TYPE_TEXT
		}
		page := row.PageNo
		if page < 1 {
			page = 1
		}

		questions = append(questions, surveyengine.Question{
			ID:               row.FieldID,
			Sequence:         row.Sequence,
			Page:             page,
			Name:             strings.TrimSpace(row.FieldName),
			Type:             questionType,
			LabelEN:          row.QuestionEN,
			LabelFR:          row.QuestionFR,
			OptionsEN:        row.ChoicesEN,
			OptionsFR:        row.ChoicesFR,
			IsRequired:       row.IsRequired,
			CharLimit:        row.CharLimit,
			Format:           strings.ToLower(strings.TrimSpace(row.Format)),
			DisplayCondition: row.DisplayCondition,
		})
	}
	return questions
}

func totalPages(questions []surveyengine.Question) int {
	max := 1
	for _, question := range questions {
		if question.Page > max {
			max = question.Page
		}
	}
	return max
}

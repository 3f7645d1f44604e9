package surveyengine

import (
	"log/slog"
	"strings"
)

// A dependency chain deeper than this is treated as a cycle and hidden.
const maxDependencyDepth = 32

// IsVisible decides whether a question is currently shown. Questions without
// a display condition are always visible. Otherwise every other question whose
// name occurs in the condition must itself be visible - a hidden dependency
// hides this question no matter what the expression alone would say, because
// the referenced answer belongs to a page the respondent never saw. Only then
// is the condition itself evaluated.
func (e *Evaluator) IsVisible(question Question, allQuestions []Question, context map[string]any) bool {
	return e.isVisible(question, allQuestions, context, 0)
}

func (e *Evaluator) isVisible(question Question, allQuestions []Question, context map[string]any, depth int) bool {
	condition := strings.TrimSpace(question.DisplayCondition)
	if condition == "" {
		return true
	}

	if depth >= maxDependencyDepth {
		slog.Warn("display condition dependency chain too deep, treating as hidden", slog.String("questionID", question.ID))
		return false
	}

	for _, other := range allQuestions {
		if other.ID == question.ID || other.Name == "" {
			continue
		}
		if strings.Contains(condition, other.Name) {
			if !e.isVisible(other, allQuestions, context, depth+1) {
				return false
			}
		}
	}

	visible, err := e.EvalCondition(condition, context)
	if err != nil {
		slog.Debug("display condition evaluation failed", slog.String("questionID", question.ID), slog.String("error", err.Error()))
		return false
	}
	return visible
}

// CountVisible returns how many of the given questions are visible. The
// condition context and dependency chain still span the full question set.
func (e *Evaluator) CountVisible(questions []Question, allQuestions []Question, context map[string]any) int {
	count := 0
	for _, question := range questions {
		if e.IsVisible(question, allQuestions, context) {
			count++
		}
	}
	return count
}

package surveyengine

import "log/slog"

// DefaultEndSurveyConditions terminate the questionnaire early; deployments
// override them through configuration.
var DefaultEndSurveyConditions = []string{
	"pt_contact_request == 'Yes'",
}

// EndSurveyResolver evaluates a fixed, ordered list of termination conditions
// against the full answer context.
type EndSurveyResolver struct {
	evaluator  *Evaluator
	conditions []string
}

func NewEndSurveyResolver(evaluator *Evaluator, conditions []string) *EndSurveyResolver {
	if conditions == nil {
		conditions = DefaultEndSurveyConditions
	}
	return &EndSurveyResolver{
		evaluator:  evaluator,
		conditions: conditions,
	}
}

// Resolve returns the first condition that holds for the given context, if
// any. Later conditions are not evaluated once one matched; evaluation errors
// count as "not met".
func (r *EndSurveyResolver) Resolve(context map[string]any) (condition string, matched bool) {
	for _, candidate := range r.conditions {
		met, err := r.evaluator.EvalCondition(candidate, context)
		if err != nil {
			slog.Error("error evaluating end-of-survey condition", slog.String("condition", candidate), slog.String("error", err.Error()))
			continue
		}
		if met {
			return candidate, true
		}
	}
	return "", false
}

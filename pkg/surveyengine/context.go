package surveyengine

import "strings"

// BuildAnswerContext produces the name -> value mapping expressions and label
// templates are resolved against. It covers every named question across all
// pages, since conditions may reference questions the respondent has not
// reached yet; questions without a stored response map to nil.
func BuildAnswerContext(questions []Question, responses map[string]Response) map[string]any {
	context := make(map[string]any, len(questions))
	for _, question := range questions {
		if question.Name == "" {
			continue
		}
		var value any
		if response, ok := responses[question.ID]; ok {
			value = response.Value
		}
		context[question.Name] = value
	}
	return context
}

// ApplyLabelTemplates substitutes every "[name]" token in the questions'
// labels with the named answer's current value (empty string while
// unanswered). It expects the full response set so forward references resolve
// once their page has been reached.
func ApplyLabelTemplates(questions []Question, responses map[string]Response) {
	for _, response := range responses {
		if response.Name == "" {
			continue
		}
		token := "[" + response.Name + "]"
		value := ValueToString(response.Value)

		for i := range questions {
			if questions[i].LabelEN != "" {
				questions[i].LabelEN = strings.ReplaceAll(questions[i].LabelEN, token, value)
			}
			if questions[i].LabelFR != "" {
				questions[i].LabelFR = strings.ReplaceAll(questions[i].LabelFR, token, value)
			}
		}
	}
}

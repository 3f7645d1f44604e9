package surveyengine

import "testing"

func TestBuildAnswerContext(t *testing.T) {
	questions := []Question{
		{ID: "q1", Name: "first", Page: 1},
		{ID: "q2", Name: "second", Page: 2},
		{ID: "q3", Name: "", Page: 3},
	}
	responses := map[string]Response{
		"q1": {QuestionID: "q1", Name: "first", Value: "Yes"},
	}

	context := BuildAnswerContext(questions, responses)

	if len(context) != 2 {
		t.Fatalf("unexpected context size: %d", len(context))
	}
	if context["first"] != "Yes" {
		t.Errorf("unexpected value for first: %v", context["first"])
	}
	if value, ok := context["second"]; !ok || value != nil {
		t.Errorf("expected unanswered question to map to nil, got: %v (present: %v)", value, ok)
	}
}

func TestApplyLabelTemplates(t *testing.T) {
	t.Run("substitutes every occurrence", func(t *testing.T) {
		questions := []Question{
			{ID: "q1", Name: "pt_name", LabelEN: "Your name"},
			{ID: "q2", Name: "greeting", LabelEN: "Hello [pt_name], is [pt_name] correct?", LabelFR: "Bonjour [pt_name]"},
		}
		responses := map[string]Response{
			"q1": {QuestionID: "q1", Name: "pt_name", Value: "Ada"},
		}

		ApplyLabelTemplates(questions, responses)

		if questions[1].LabelEN != "Hello Ada, is Ada correct?" {
			t.Errorf("unexpected EN label: %q", questions[1].LabelEN)
		}
		if questions[1].LabelFR != "Bonjour Ada" {
			t.Errorf("unexpected FR label: %q", questions[1].LabelFR)
		}
	})

	t.Run("nil values substitute as empty string", func(t *testing.T) {
		questions := []Question{
			{ID: "q2", Name: "greeting", LabelEN: "Hello [pt_name]!"},
		}
		responses := map[string]Response{
			"q1": {QuestionID: "q1", Name: "pt_name", Value: nil},
		}

		ApplyLabelTemplates(questions, responses)

		if questions[0].LabelEN != "Hello !" {
			t.Errorf("unexpected label: %q", questions[0].LabelEN)
		}
	})

	t.Run("unknown tokens stay untouched", func(t *testing.T) {
		questions := []Question{
			{ID: "q2", Name: "greeting", LabelEN: "Hello [someone_else]"},
		}
		responses := map[string]Response{
			"q1": {QuestionID: "q1", Name: "pt_name", Value: "Ada"},
		}

		ApplyLabelTemplates(questions, responses)

		if questions[0].LabelEN != "Hello [someone_else]" {
			t.Errorf("unexpected label: %q", questions[0].LabelEN)
		}
	})
}

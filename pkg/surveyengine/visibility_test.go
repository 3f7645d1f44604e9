package surveyengine

import "testing"

func TestIsVisible(t *testing.T) {
	evaluator := NewEvaluator()

	t.Run("no condition is always visible", func(t *testing.T) {
		question := Question{ID: "q1", Name: "plain"}
		if !evaluator.IsVisible(question, []Question{question}, map[string]any{}) {
			t.Error("expected question without condition to be visible")
		}
	})

	t.Run("condition gates visibility", func(t *testing.T) {
		questions := []Question{
			{ID: "q1", Name: "trigger"},
			{ID: "q2", Name: "gated", DisplayCondition: "trigger == 'Yes'"},
		}

		context := map[string]any{"trigger": "Yes", "gated": nil}
		if !evaluator.IsVisible(questions[1], questions, context) {
			t.Error("expected gated question to be visible")
		}

		context["trigger"] = "No"
		if evaluator.IsVisible(questions[1], questions, context) {
			t.Error("expected gated question to be hidden")
		}
	})

	t.Run("hidden dependency overrides literal result", func(t *testing.T) {
		// C hidden -> B hidden -> A must be hidden even though A's
		// expression alone would evaluate true.
		questions := []Question{
			{ID: "qa", Name: "a", DisplayCondition: "b == 'set'"},
			{ID: "qb", Name: "b", DisplayCondition: "c == 'Yes'"},
			{ID: "qc", Name: "c", DisplayCondition: "1 == 2"},
		}
		context := map[string]any{"a": nil, "b": "set", "c": "Yes"}

		if evaluator.IsVisible(questions[2], questions, context) {
			t.Fatal("expected c to be hidden")
		}
		if evaluator.IsVisible(questions[1], questions, context) {
			t.Fatal("expected b to be hidden through c")
		}
		if evaluator.IsVisible(questions[0], questions, context) {
			t.Error("expected a to be hidden although its expression holds")
		}
	})

	t.Run("cyclic dependencies resolve hidden", func(t *testing.T) {
		questions := []Question{
			{ID: "q1", Name: "first", DisplayCondition: "second == '1'"},
			{ID: "q2", Name: "second", DisplayCondition: "first == '1'"},
		}
		context := map[string]any{"first": "1", "second": "1"}

		if evaluator.IsVisible(questions[0], questions, context) {
			t.Error("expected cyclic condition to resolve hidden")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		questions := []Question{
			{ID: "q1", Name: "trigger"},
			{ID: "q2", Name: "gated", DisplayCondition: "trigger == 'Yes'"},
		}
		context := map[string]any{"trigger": "Yes"}

		first := evaluator.IsVisible(questions[1], questions, context)
		for i := 0; i < 5; i++ {
			if evaluator.IsVisible(questions[1], questions, context) != first {
				t.Fatal("visibility changed between identical calls")
			}
		}
	})
}

func TestCountVisible(t *testing.T) {
	evaluator := NewEvaluator()

	questions := []Question{
		{ID: "q1", Name: "always", Page: 2},
		{ID: "q2", Name: "never", Page: 2, DisplayCondition: "always == 'x'"},
	}
	context := map[string]any{"always": nil, "never": nil}

	if got := evaluator.CountVisible(questions, questions, context); got != 1 {
		t.Errorf("unexpected visible count: %d", got)
	}
}

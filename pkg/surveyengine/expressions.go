package surveyengine

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	// Characters a condition may contain after operator normalization.
	// Anything outside this set aborts evaluation before compiling.
	safeExpressionRegex = regexp.MustCompile(`^[\sA-Za-z0-9_\[\]'"().,:;<>!=&|+\-/*%?]+$`)

	// Bracketed answer references like [pt_contact_request].
	bracketTokenRegex = regexp.MustCompile(`\[([A-Za-z_][A-Za-z0-9_]*)\]`)

	// The catalog's null literal; the expression VM spells it nil.
	nullLiteralRegex = regexp.MustCompile(`\bnull\b`)
)

// Evaluator evaluates display and end-of-survey conditions against an answer
// context. Conditions are compiled into programs once and cached by their
// normalized source; answer values only ever enter evaluation through the
// environment, never through the expression text, so a value can not change
// what code runs.
type Evaluator struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: map[string]*vm.Program{},
	}
}

// EvalCondition evaluates a boolean condition against the answer context.
// Every failure path (unsafe character, parse error, runtime error) yields
// false together with the error; evaluation never has side effects.
func (e *Evaluator) EvalCondition(condition string, context map[string]any) (bool, error) {
	statement := strings.TrimSpace(condition)
	if statement == "" {
		return false, errors.New("empty condition")
	}

	statement = normalizeCondition(statement)

	if !safeExpressionRegex.MatchString(statement) {
		return false, fmt.Errorf("unsafe character in condition: %s", condition)
	}

	program, err := e.program(statement)
	if err != nil {
		return false, fmt.Errorf("failed to compile condition %q: %w", condition, err)
	}

	if context == nil {
		context = map[string]any{}
	}

	result, err := vm.Run(program, context)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition %q: %w", condition, err)
	}

	return isTruthy(result), nil
}

// normalizeCondition rewrites the catalog grammar into the VM's: "<>" becomes
// "!=", bracketed references become plain identifiers and "null" becomes
// "nil". Unknown identifiers resolve to nil at runtime through the context
// map, matching the rule that unresolved names evaluate to null.
func normalizeCondition(statement string) string {
	statement = strings.ReplaceAll(statement, "<>", "!=")
	statement = bracketTokenRegex.ReplaceAllString(statement, "$1")
	statement = replaceNullLiterals(statement)
	return statement
}

// replaceNullLiterals rewrites the bare null literal to nil. Content inside
// single or double quotes is left untouched, so 'null' stays a string.
func replaceNullLiterals(statement string) string {
	var sb strings.Builder
	var quote byte
	start := 0
	for i := 0; i < len(statement); i++ {
		c := statement[i]
		switch {
		case quote == 0 && (c == '\'' || c == '"'):
			sb.WriteString(nullLiteralRegex.ReplaceAllString(statement[start:i], "nil"))
			quote = c
			start = i
		case quote != 0 && c == quote:
			sb.WriteString(statement[start : i+1])
			quote = 0
			start = i + 1
		}
	}
	if quote == 0 {
		sb.WriteString(nullLiteralRegex.ReplaceAllString(statement[start:], "nil"))
	} else {
		sb.WriteString(statement[start:])
	}
	return sb.String()
}

func (e *Evaluator) program(statement string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if program, ok := e.cache[statement]; ok {
		return program, nil
	}

	program, err := expr.Compile(statement, expr.AllowUndefinedVariables(), expr.DisableAllBuiltins())
	if err != nil {
		return nil, err
	}
	e.cache[statement] = program
	return program, nil
}

func isTruthy(result any) bool {
	switch v := result.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}

// ABOUTME: Calculator and markdown preview demos
// ABOUTME: The calculator returns two values and an error; markdown renders to HTML

package demos

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2389/chailab/internal/bridge"
	"github.com/2389/chailab/internal/component"
)

var (
	// ErrDivisionByZero is returned by Calculate for x / 0.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrUnknownOperator is returned by Calculate for operators other than + - * /.
	ErrUnknownOperator = errors.New("unknown operator")
)

// Calculate applies op to a and b and also returns the expression as text.
func Calculate(a float64, op string, b float64) (float64, string, error) {
	var result float64
	switch strings.TrimSpace(op) {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*", "x", "×":
		result = a * b
	case "/", "÷":
		if b == 0 {
			return 0, "", ErrDivisionByZero
		}
		result = a / b
	default:
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
	return result, fmt.Sprintf("%g %s %g = %g", a, strings.TrimSpace(op), b, result), nil
}

// Preview returns the source for the markdown output and counts its words.
func Preview(src string) (string, string) {
	return src, fmt.Sprintf("%d words", len(strings.Fields(src)))
}

func init() {
	register(Demo{
		Name:        "calculator",
		Kind:        KindInterface,
		Title:       "Calculator",
		Description: "Type an operator: `+`, `-`, `*` or `/`.",
		fn:          Calculate,
		options: func() []bridge.Option {
			return []bridge.Option{
				bridge.WithInputs([]any{
					component.NewNumber(component.WithLabel("A"), component.WithValue(4)),
					component.NewInput(component.WithLabel("Operator"), component.WithValue("+")),
					component.NewNumber(component.WithLabel("B"), component.WithValue(2)),
				}),
				bridge.WithOutputs([]any{
					component.NewNumber(component.WithLabel("Result")),
					component.NewText(component.WithLabel("Expression")),
				}),
				bridge.WithExamples([]any{4, "+", 2}, []any{9, "/", 3}),
			}
		},
	})

	register(Demo{
		Name:        "markdown",
		Kind:        KindInterface,
		Title:       "Markdown Preview",
		Description: "Write some *markdown* and see it rendered.",
		fn:          Preview,
		options: func() []bridge.Option {
			return []bridge.Option{
				bridge.WithInputs(component.NewInput(component.WithLabel("Source"), component.WithPlaceholder("# Hello"))),
				bridge.WithOutputs([]string{"markdown", "text"}),
				bridge.WithTheme("purple"),
			}
		},
	})
}

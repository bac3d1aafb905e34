// ABOUTME: Greeting and experiment-tracker form demos
// ABOUTME: Show text inputs, sliders, examples and markdown articles

package demos

import (
	"fmt"
	"strings"

	"github.com/2389/chailab/internal/bridge"
	"github.com/2389/chailab/internal/component"
)

// Greet greets name with intensity exclamation marks.
func Greet(name string, intensity int) string {
	return "Hello, " + name + strings.Repeat("!", max(intensity, 0))
}

// Analyze pretends to score a training run.
func Analyze(dataset, model string, learningRate float64) string {
	if learningRate <= 0 {
		learningRate = 0.01
	}
	accuracy := 0.85 + learningRate*0.1
	loss := 0.15 - learningRate*0.05
	switch strings.ToLower(model) {
	case "cnn":
		accuracy += 0.05
		loss -= 0.02
	case "transformer":
		accuracy += 0.08
		loss -= 0.03
	}

	advice := "Good performance. Try hyperparameter tuning."
	if accuracy > 0.9 {
		advice = "Great results! Consider deploying this model."
	}
	lrAdvice := "Consider adjusting learning rate."
	if learningRate >= 0.001 && learningRate <= 0.01 {
		lrAdvice = "Learning rate is optimal."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Experiment results for %s\n\n", dataset)
	fmt.Fprintf(&b, "Model: %s\n", strings.ToUpper(model))
	fmt.Fprintf(&b, "Learning rate: %g\n", learningRate)
	fmt.Fprintf(&b, "Accuracy: %.3f\n", accuracy)
	fmt.Fprintf(&b, "Loss: %.3f\n\n", loss)
	fmt.Fprintf(&b, "- %s\n- %s\n", advice, lrAdvice)
	return b.String()
}

func init() {
	register(Demo{
		Name:        "greet",
		Kind:        KindInterface,
		Title:       "ChaiLab Greeting Demo",
		Description: "Enter your name and set the intensity level to see a personalized greeting!",
		fn:          Greet,
		options: func() []bridge.Option {
			return []bridge.Option{
				bridge.WithInputs([]any{
					component.NewInput(component.WithLabel("Name"), component.WithPlaceholder("Ada")),
					component.NewSlider(component.WithLabel("Intensity"), component.WithRange(0, 10, 1), component.WithValue(3)),
				}),
				bridge.WithOutputs("text"),
				bridge.WithExamples([]any{"Ada", 3}, []any{"Grace", 1}),
			}
		},
	})

	register(Demo{
		Name:        "experiment",
		Kind:        KindInterface,
		Title:       "ML Experiment Tracker",
		Description: "Track your machine learning experiments with a few form fields.",
		fn:          Analyze,
		options: func() []bridge.Option {
			return []bridge.Option{
				bridge.WithInputs([]any{
					component.NewInput(component.WithLabel("Dataset Name"), component.WithPlaceholder("e.g., MNIST, CIFAR-10, ImageNet"), component.WithValue("MNIST")),
					component.NewInput(component.WithLabel("Model Type"), component.WithPlaceholder("CNN, Transformer, or MLP"), component.WithValue("CNN")),
					component.NewSlider(component.WithLabel("Learning Rate"), component.WithRange(0.0001, 0.1, 0.0001), component.WithValue(0.01)),
				}),
				bridge.WithArticle("Scores are simulated. Nothing is trained."),
			}
		},
	})
}

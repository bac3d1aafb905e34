// Package demos holds the example apps the chailab CLI can serve: greet,
// experiment, calculator, markdown, echo and random.
package demos

// Package workflow runs the fixed bridgekeeper demonstration as an explicit
// sequence of named steps. Each step gates the next: the first failure
// stops the run.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
)

// Step is a named unit of work.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError reports the step that stopped a run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline runs steps in order.
type Pipeline struct {
	steps []Step
	log   logging.Logger
}

func NewPipeline(log logging.Logger, steps ...Step) *Pipeline {
	return &Pipeline{steps: steps, log: log}
}

// Steps returns the names of the steps in run order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Run executes every step in order and returns the first failure as a
// *StepError. A cancelled context stops the run before the next step.
func (p *Pipeline) Run(ctx context.Context) error {
	for i, step := range p.steps {
		log := p.log.With("step", step.Name, "index", i+1, "total", len(p.steps))

		if err := ctx.Err(); err != nil {
			log.Warn(ctx, "workflow cancelled")
			return &StepError{Step: step.Name, Err: err}
		}

		start := time.Now()
		if err := step.Run(ctx); err != nil {
			log.Error(ctx, "step failed", "error", err)
			return &StepError{Step: step.Name, Err: err}
		}
		log.Info(ctx, "step completed", "elapsed", time.Since(start).String())
	}
	return nil
}

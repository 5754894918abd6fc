// Package probe runs the list-models and generate-content diagnostics
// against a provider client.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"time"

	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/charmbracelet/log"
)

// ErrMissingAPIKey happens when no API key could be found for an API that
// needs one.
var ErrMissingAPIKey = errors.New("no API key configured")

// ErrModelNotFound happens when the model under test is not in the list
// returned by the provider.
var ErrModelNotFound = errors.New("model not found")

// Client is a provider client.
type Client interface {
	// Models returns the models in the order the provider sends them.
	// The sequence performs the remote call when iterated and can't be
	// restarted without iterating it again.
	Models(ctx context.Context) iter.Seq2[proto.Model, error]

	// Generate sends a single prompt and returns the generated text.
	Generate(ctx context.Context, req proto.Request) (proto.Response, error)
}

// Step names.
const (
	StepKey      = "key"
	StepConnect  = "connect"
	StepModels   = "models"
	StepGenerate = "generate"
)

// StepResult is the outcome of a single step.
type StepResult struct {
	Name    string
	Elapsed time.Duration
	Err     error
}

// Result is the outcome of a probe.
type Result struct {
	API      string
	Model    string
	Models   []proto.Model
	Response proto.Response
	Steps    []StepResult
	Err      error
}

// OK reports whether every step succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Elapsed is the sum of all step durations.
func (r Result) Elapsed() time.Duration {
	var d time.Duration
	for _, s := range r.Steps {
		d += s.Elapsed
	}
	return d
}

// FailedStep returns the name of the step that failed, if any.
func (r Result) FailedStep() string {
	for _, s := range r.Steps {
		if s.Err != nil {
			return s.Name
		}
	}
	return ""
}

// Probe describes which remote calls to make.
type Probe struct {
	API    string
	Model  string
	Prompt string
	Images []proto.Image

	// Temperature and MaxTokens are left to the provider when nil.
	Temperature *float64
	MaxTokens   *int64

	// SkipModels skips the model listing.
	SkipModels bool
	// SkipGenerate skips the generate content call.
	SkipGenerate bool
	// RequireModel fails the listing step when Model is not listed.
	RequireModel bool

	// Wait wraps each blocking remote call, e.g. to show a spinner.
	Wait   func(label string, fn func() error) error
	Logger *log.Logger
}

func (p Probe) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.New(io.Discard)
}

func (p Probe) wait(label string, fn func() error) error {
	if p.Wait == nil {
		return fn()
	}
	return p.Wait(label, fn)
}

// run executes the remote steps against c, writing to w once each step
// returns. It stops at the first error.
func (p Probe) run(ctx context.Context, w *sectionWriter, c Client, res *Result) error {
	if !p.SkipModels {
		w.Section("Available models:")
		var models []proto.Model
		var buf bytes.Buffer
		err := p.step(res, StepModels, func() error {
			return p.wait("Listing models", func() error {
				var err error
				models, err = ListModels(ctx, c, &buf)
				return err
			})
		})
		_, _ = buf.WriteTo(w)
		res.Models = models
		if err != nil {
			return err
		}
		if p.RequireModel && !hasModel(models, p.Model) {
			err := fmt.Errorf("%w: %s", ErrModelNotFound, p.Model)
			res.Steps[len(res.Steps)-1].Err = err
			return err
		}
	}

	if p.SkipGenerate {
		return nil
	}

	w.Section(fmt.Sprintf("Testing with %s...", p.Model))
	var buf bytes.Buffer
	err := p.step(res, StepGenerate, func() error {
		return p.wait("Generating", func() error {
			resp, err := Generate(ctx, c, proto.Request{
				Model:       p.Model,
				Prompt:      p.Prompt,
				Images:      p.Images,
				Temperature: p.Temperature,
				MaxTokens:   p.MaxTokens,
			}, &buf)
			res.Response = resp
			return err
		})
	})
	_, _ = buf.WriteTo(w)
	return err
}

func (p Probe) step(res *Result, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	res.Steps = append(res.Steps, StepResult{
		Name:    name,
		Elapsed: elapsed,
		Err:     err,
	})
	l := p.logger().With("api", p.API, "step", name, "elapsed", elapsed)
	if err != nil {
		l.Debug("step failed", "err", err)
	} else {
		l.Debug("step done")
	}
	return err
}

// ListModels iterates the client models, writing one "- name" line for each
// model as it arrives.
func ListModels(ctx context.Context, c Client, w io.Writer) ([]proto.Model, error) {
	var models []proto.Model
	for m, err := range c.Models(ctx) {
		if err != nil {
			return models, err
		}
		if _, err := fmt.Fprintf(w, "- %s\n", m.Name); err != nil {
			return models, err //nolint:wrapcheck
		}
		models = append(models, m)
	}
	return models, nil
}

// Generate sends req and writes the response text as-is.
func Generate(ctx context.Context, c Client, req proto.Request, w io.Writer) (proto.Response, error) {
	resp, err := c.Generate(ctx, req)
	if err != nil {
		return resp, err
	}
	if _, err := fmt.Fprintf(w, "Response: %s\n", resp.Text); err != nil {
		return resp, err //nolint:wrapcheck
	}
	return resp, nil
}

func hasModel(models []proto.Model, name string) bool {
	short := proto.ShortName(name)
	return slices.ContainsFunc(models, func(m proto.Model) bool {
		return m.Name == name || proto.ShortName(m.Name) == short
	})
}

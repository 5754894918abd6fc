package probe

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Setup resolves credentials for an API and connects to it.
type Setup struct {
	// Name is the human readable API name, e.g. "Gemini".
	Name string
	// NeedsKey is false for APIs that don't authenticate, like Ollama.
	NeedsKey bool
	// Key resolves the API key.
	Key func() (string, error)
	// Connect creates the client for the given key.
	Connect func(key string) (Client, error)
	// Checklist is printed when the check flow fails.
	Checklist Checklist
}

// once makes sure the key is resolved a single time, as it might run a
// command.
func (s Setup) once() Setup {
	if s.Key == nil {
		s.Key = func() (string, error) { return "", ErrMissingAPIKey }
	}
	s.Key = sync.OnceValues(s.Key)
	return s
}

func (s Setup) connect(ctx context.Context, w *sectionWriter, p Probe, res *Result) error {
	var key string
	if s.NeedsKey {
		if err := p.step(res, StepKey, func() error {
			var err error
			key, err = s.Key()
			if err == nil && key == "" {
				err = ErrMissingAPIKey
			}
			return err
		}); err != nil {
			return err
		}
	}

	var client Client
	if err := p.step(res, StepConnect, func() error {
		var err error
		client, err = s.Connect(key)
		return err
	}); err != nil {
		return err
	}
	return p.run(ctx, w, client, res)
}

// Test runs the probe and returns the first error it finds. Nothing is
// printed for the error itself; callers are expected to surface it.
func Test(ctx context.Context, out io.Writer, s Setup, p Probe) (Result, error) {
	res := Result{API: p.API, Model: p.Model}
	w := newSectionWriter(out)
	s = s.once()
	err := s.connect(ctx, w, p, &res)
	res.Err = err
	return res, err
}

// Check runs the probe like [Test], but also reports whether a key is
// configured and, on failure, prints the error followed by the
// troubleshooting checklist. No remote call is made after a failure.
//
// The returned result carries the error in [Result.Err]; it has already
// been reported to out.
func Check(ctx context.Context, out io.Writer, s Setup, p Probe) Result {
	res := Result{API: p.API, Model: p.Model}
	w := newSectionWriter(out)
	s = s.once()

	_, _ = fmt.Fprintf(w, "Checking %s API setup...\n", s.Name)
	if s.NeedsKey {
		configured := "No"
		if key, err := s.Key(); err == nil && key != "" {
			configured = "Yes"
		}
		_, _ = fmt.Fprintf(w, "API Key configured: %s\n", configured)
	}

	if err := s.connect(ctx, w, p, &res); err != nil {
		res.Err = err
		Report(w, err, s.Checklist)
	}
	return res
}

// sectionWriter separates sections with a blank line, except for the first
// one.
type sectionWriter struct {
	w       io.Writer
	written bool
}

func newSectionWriter(w io.Writer) *sectionWriter {
	return &sectionWriter{w: w}
}

func (s *sectionWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		s.written = true
	}
	return s.w.Write(p) //nolint:wrapcheck
}

// Section writes a section title.
func (s *sectionWriter) Section(title string) {
	if s.written {
		_, _ = io.WriteString(s, "\n")
	}
	_, _ = io.WriteString(s, title+"\n")
}

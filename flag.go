package main

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/duration"
)

var (
	needsArgRE      = regexp.MustCompile(`^flag needs an argument: (?:'\w' in )?(-{1,2}[\w-]+)`)
	unknownFlagRE   = regexp.MustCompile(`^unknown flag: (--[\w-]+)`)
	unknownShortRE  = regexp.MustCompile(`^unknown shorthand flag: '.*' in (-\w)`)
	invalidArgRE    = regexp.MustCompile(`^invalid argument ".*" for "(.*)" flag: .*`)
	errBadTimeout   = errors.New("timeout must be positive")
	durationFlags   = map[string]bool{"--timeout": true}
)

// newFlagParseError turns a pflag error into a reason format and the flag
// it is about.
func newFlagParseError(err error) flagParseError {
	s := err.Error()
	ferr := flagParseError{err: err, reason: s}
	match := func(re *regexp.Regexp) bool {
		parts := re.FindStringSubmatch(s)
		if len(parts) < 2 { //nolint:mnd
			return false
		}
		ferr.flag = parts[1]
		return true
	}

	switch {
	case match(needsArgRE):
		ferr.reason = "Flag %s needs an argument."
	case match(unknownFlagRE):
		ferr.reason = "Flag %s is missing."
	case match(unknownShortRE):
		ferr.reason = "Short flag %s is missing."
	case match(invalidArgRE):
		ferr.reason = "Flag %s has an invalid argument."
		if durationFlags[longName(ferr.flag)] {
			ferr.reason = "Flag %s needs a positive duration, like 30s or 2m."
		}
	}
	return ferr
}

// longName returns the long form of "-q, --quiet" style flag names.
func longName(flag string) string {
	if i := strings.LastIndex(flag, " "); i >= 0 {
		return flag[i+1:]
	}
	return flag
}

type flagParseError struct {
	err    error
	reason string
	flag   string
}

func (f flagParseError) Error() string {
	return f.err.Error()
}

func (f flagParseError) Unwrap() error {
	return f.err
}

// ReasonFormat has a %s verb for the flag name.
func (f flagParseError) ReasonFormat() string {
	return f.reason
}

func (f flagParseError) Flag() string {
	return f.flag
}

func newDurationFlag(val time.Duration, p *time.Duration) *durationFlag {
	*p = val
	return (*durationFlag)(p)
}

// durationFlag accepts the usual Go durations plus days and weeks.
type durationFlag time.Duration

func (d *durationFlag) Set(s string) error {
	v, err := duration.Parse(s)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if v <= 0 {
		return errBadTimeout
	}
	*d = durationFlag(v)
	return nil
}

func (d *durationFlag) String() string {
	return time.Duration(*d).String()
}

func (*durationFlag) Type() string {
	return "duration"
}

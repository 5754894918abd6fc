package main

// probeError is a wrapper around an error that adds additional context.
type probeError struct {
	err    error
	reason string
}

func (p probeError) Error() string {
	return p.err.Error()
}

func (p probeError) Reason() string {
	return p.reason
}

func (p probeError) Unwrap() error {
	return p.err
}

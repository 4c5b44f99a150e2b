// Package telemetry decodes raw match telemetry payloads into typed events.
package telemetry

import "fmt"

// FetchError is returned when a telemetry payload cannot be fetched,
// decompressed or parsed. Analysis never runs on a payload that produced one.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("telemetry %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func fetchErr(source string, err error) error {
	return &FetchError{Source: source, Err: err}
}

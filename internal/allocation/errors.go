package allocation

import "fmt"

// UpstreamUnavailableError reports that the completion backend errored or
// timed out. Fatal to the request; never retried here.
type UpstreamUnavailableError struct {
	Err error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("completion backend unavailable: %v", e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// MalformedResponseError reports that the backend's output violated the
// structured numeric contract. Raw carries the offending text for diagnosis.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed completion response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// DegenerateAllocationError reports a parsed allocation whose percentage sum
// is zero or negative. Such output is unusable and is never repaired.
type DegenerateAllocationError struct {
	Sum float64
}

func (e *DegenerateAllocationError) Error() string {
	return fmt.Sprintf("degenerate allocation: percentage sum %.2f is not positive", e.Sum)
}

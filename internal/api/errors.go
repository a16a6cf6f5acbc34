package api

import "fmt"

// FetchError reports a transport-level failure: the request never produced a
// usable response envelope (network error, bad URL, or a non-2xx status with
// no decodable body).
type FetchError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned HTTP %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// APIError reports an envelope with success=false. Message is the
// server-supplied user-facing text.
type APIError struct {
	Op      string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

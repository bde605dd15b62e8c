package api

import (
	"fmt"
)

const errorTitle = "OtcAPI"

// NetworkError means the remote call never produced a usable response:
// transport failure, unreadable body, invalid JSON or a missing result field.
type NetworkError struct {
	Endpoint string
	Err      error
}

func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s: NetworkError: %s", errorTitle, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteError is a well-formed response whose ret_code is non-zero. Body is the raw response.
type RemoteError struct {
	Endpoint string
	Code     int64
	Msg      string
	Body     []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s: RemoteError (code %d): %s", errorTitle, e.Endpoint, e.Code, e.Body)
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of a failed response is read for its detail.
const maxErrorBody = 64 << 10

// StatusError is returned for any non-success response.
type StatusError struct {
	Op         string
	StatusCode int
	Detail     string // server supplied message, may be empty
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// TransportError wraps failures to reach the server at all.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying network error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err came from the network layer.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// transportBody reports failed body reads as TransportError, so a connection
// dropped mid-download is told apart from local I/O failures.
type transportBody struct {
	op string
	rc io.ReadCloser
}

func (b *transportBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, &TransportError{Op: b.op, Err: err}
	}
	return n, err
}

func (b *transportBody) Close() error {
	return b.rc.Close()
}

// errorBody is the shape of the service's error responses.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// newStatusError reads the detail of a failed response. Bodies that are not
// JSON, or whose detail is not a string, leave Detail empty.
func newStatusError(op string, resp *http.Response) *StatusError {
	serr := &StatusError{Op: op, StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return serr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return serr
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		serr.Detail = detail
	}
	return serr
}

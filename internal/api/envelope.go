package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Envelope is the result wrapper the service puts around every payload.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Error is a failed call as reported by the service.
type Error struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != 0 && e.Code != e.StatusCode {
		return fmt.Sprintf("api error %d (http %d): %s", e.Code, e.StatusCode, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

// IsUnauthorized reports whether err is a 401 from the service, either as
// HTTP status or as envelope code.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.Code == http.StatusUnauthorized
}

// Decode unwraps the envelope in resp. A non-2xx status or an envelope code
// other than 0 or 200 is returned as *Error.
func Decode[T any](resp *Response) (T, error) {
	var zero T
	if resp == nil {
		return zero, errors.New("api: nil response")
	}

	var env Envelope[T]
	var decodeErr error
	if len(resp.Body) > 0 {
		decodeErr = json.Unmarshal(resp.Body, &env)
	}

	if !resp.OK() {
		e := &Error{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			e.Code = env.Code
			e.Message = env.Message
		}
		return zero, e
	}
	if decodeErr != nil {
		return zero, fmt.Errorf("decode %s %s response: %w", resp.Method, resp.URL, decodeErr)
	}
	if env.Code != 0 && env.Code != http.StatusOK {
		return zero, &Error{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	return env.Data, nil
}

// Check is Decode for calls whose payload is ignored.
func Check(resp *Response) error {
	_, err := Decode[json.RawMessage](resp)
	return err
}

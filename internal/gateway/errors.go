package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrSessionExpired means the silent refresh could not produce a usable credential.
	// The session has been cleared by the time it is returned.
	ErrSessionExpired = errors.New("session expired, please login again")

	ErrMalformedRefresh = errors.New("malformed refresh response")
)

// maxErrorBody bounds how much of an error payload is kept
const maxErrorBody = 64 << 10

// NetworkError is a transport failure: the request never produced a response
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response. Body is the raw payload returned by the backend.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Detail returns the backend's "detail" message, or every field error
// joined in payload order when the body is a validation map.
func (e *HTTPError) Detail() string {
	var payload struct {
		Detail *string `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &payload); err == nil && payload.Detail != nil {
		return *payload.Detail
	}
	if msg := FlattenFieldErrors(e.Body); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(e.Body))
}

// FlattenFieldErrors joins every string of a {"field": ["msg", ...]} or
// ["msg", ...] payload with spaces, keeping document order. Keys are skipped.
func FlattenFieldErrors(body []byte) string {
	dec := json.NewDecoder(bytes.NewReader(body))

	type frame struct{ object, wantKey bool }
	var stack []frame
	valueDone := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].wantKey = true
		}
	}

	var parts []string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, frame{object: true, wantKey: true})
			case '[':
				stack = append(stack, frame{})
			default:
				stack = stack[:len(stack)-1]
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].wantKey {
				stack[n-1].wantKey = false
				continue
			}
			parts = append(parts, t)
			valueDone()
		default:
			valueDone()
		}
	}
	return strings.Join(parts, " ")
}

// CheckResponse turns a non-2xx response into an *HTTPError and closes its body
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{StatusCode: resp.StatusCode, Body: body}
}

// DecodeJSON checks the status, decodes a 2xx body into dest and closes it
func DecodeJSON(resp *http.Response, dest interface{}) error {
	if err := CheckResponse(resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// IsHTTPStatus reports whether err is an *HTTPError with the given status
func IsHTTPStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}

// IsSessionExpired reports whether err means the user has to login again
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

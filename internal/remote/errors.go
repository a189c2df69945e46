package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StatusError is an unexpected HTTP status from the document server.
type StatusError struct {
	Code    int
	Op      string
	Message string
}

func (e *StatusError) Error() string {
	msg := ""
	if e.Message != "" {
		msg = ": " + e.Message
	}
	if e.Op == "" {
		return fmt.Sprintf("got HTTP status %d%s", e.Code, msg)
	}
	return fmt.Sprintf("%s: got HTTP status %d%s", e.Op, e.Code, msg)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

// ExpectStatus returns a *StatusError unless res has the expected status. The server's JSON
// error message, when present, is carried along.
func ExpectStatus(res *http.Response, expected int, op string) error {
	if res.StatusCode == expected {
		return nil
	}
	se := &StatusError{Code: res.StatusCode, Op: op}
	b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil && body.Error != "" {
		se.Message = body.Error
	} else {
		se.Message = strings.TrimSpace(string(b))
	}
	return se
}

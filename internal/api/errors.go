package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

const fallbackMessage = "Something went wrong. Please try again."

// Error is a non-2xx response from the backend with whatever structure the
// body carried.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}

	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}

	apiErr.Message = body.Message
	apiErr.Fields = body.Errors
	return apiErr
}

// ErrorMessage normalizes any error from this package to a single
// human-readable string: the backend message if one was present, else the
// first field-level error, else the transport message, else a generic
// fallback.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if len(apiErr.Fields) > 0 {
			keys := make([]string, 0, len(apiErr.Fields))
			for k := range apiErr.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if len(apiErr.Fields[k]) > 0 {
					return apiErr.Fields[k][0]
				}
			}
		}
		return fallbackMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}

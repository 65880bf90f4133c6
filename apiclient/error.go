package apiclient

import (
	"encoding/json"
	"fmt"
)

// APIError is the normalized shape of every non-2xx response from the sweet
// shop API. The backend answers with a handful of different payloads
// depending on the failure: {"detail": "..."} for auth and not-found,
// {"error": "..."} for business rules such as insufficient stock, and
// field-keyed validation maps like {"email": ["..."], "password": ["..."]}
// for bad form input. All of them are captured here so callers deal with one
// error type.
type APIError struct {
	Status  int
	Detail  string
	Reason  string // the "error" payload key
	Message string
	Fields  map[string][]string
}

// Error prefers the most specific message the server supplied.
func (e *APIError) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Reason != "":
		return e.Reason
	case e.Message != "":
		return e.Message
	}
	if msg := e.firstFieldError(); msg != "" {
		return msg
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// FieldError returns the first validation message for a form field, or ""
// when the server reported nothing for that field.
func (e *APIError) FieldError(field string) string {
	if msgs, ok := e.Fields[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e *APIError) firstFieldError() string {
	for _, msgs := range e.Fields {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// newAPIError normalizes a response body into an APIError. Unknown or
// non-JSON bodies degrade to a status-only error.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if len(body) == 0 {
		return apiErr
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	for key, raw := range payload {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			switch key {
			case "detail":
				apiErr.Detail = s
			case "error":
				apiErr.Reason = s
			case "message":
				apiErr.Message = s
			}
			continue
		}

		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err == nil && len(msgs) > 0 {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = msgs
		}
	}
	return apiErr
}

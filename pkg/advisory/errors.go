package advisory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GenericFailureMessage is shown when the service supplies no usable error
// detail.
const GenericFailureMessage = "The advisory service could not process the request. Please try again."

// ServiceError is a non-2xx response from the advisory service. Detail is
// the server-supplied message when one was present, otherwise empty.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("advisory service returned status %d", e.StatusCode)
}

// UserMessage returns the text to display: the server detail verbatim when
// present, else the generic fallback.
func (e *ServiceError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return GenericFailureMessage
}

// newServiceError decodes the error body. The service reports failures as
// {"detail": "..."} or {"detail": [{"msg": "..."}, ...]} (validation lists
// are joined into one string); {"message": "..."} is accepted as well.
func newServiceError(status int, body []byte) *ServiceError {
	e := &ServiceError{StatusCode: status}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			e.Detail = s
			return e
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			e.Detail = strings.Join(msgs, "; ")
			return e
		}
	}

	e.Detail = payload.Message
	return e
}

// UserMessage extracts the displayable text from any workflow error,
// unwrapping service errors and falling back to the error's own message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.UserMessage()
	}
	return err.Error()
}

package signup

import (
	"github.com/tendant/simple-profile/pkg/errors"
	"github.com/tendant/simple-profile/pkg/profile"
)

// State is the position of a form in the submission state machine.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateValidationFailed
	StateServerFailed
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateValidationFailed:
		return "validation_failed"
	case StateServerFailed:
		return "server_failed"
	case StateSuccess:
		return "success"
	}
	return "unknown"
}

// MarshalText renders the state by name in JSON snapshots.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for candidate := StateEditing; candidate <= StateSuccess; candidate++ {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return errors.InvalidInput("state", "unknown state "+string(text))
}

// ErrorKind separates local validation failures from failures reported after
// contacting the account service.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindServer     ErrorKind = "server"
)

// ErrorCause narrows down a server error.
type ErrorCause string

const (
	CauseNone      ErrorCause = ""
	CauseConflict  ErrorCause = "conflict"
	CauseStatus    ErrorCause = "status"
	CauseTransport ErrorCause = "transport"
	CauseInternal  ErrorCause = "internal"
)

// User facing messages.
const (
	MessageMissingRequired = "Please fill in all required fields."
	MessageServerStatus    = "Network response was not ok"
	MessageConflict        = "An account with these details already exists."
	MessageTransport       = "Unable to reach the signup service. Please try again."
	MessageInternal        = "Your signup could not be sent. Please try again."
)

// SubmissionError is the single error shown to the user. A nil
// *SubmissionError means no error is active.
type SubmissionError struct {
	Kind       ErrorKind  `json:"kind"`
	Message    string     `json:"message"`
	Cause      ErrorCause `json:"cause,omitempty"`
	StatusCode int        `json:"status_code,omitempty"`
	Missing    []Field    `json:"missing,omitempty"`
}

func (e *SubmissionError) Error() string {
	return e.Message
}

func validationError(missing []Field) *SubmissionError {
	return &SubmissionError{
		Kind:    ErrorKindValidation,
		Message: MessageMissingRequired,
		Missing: missing,
	}
}

func serverError(cause ErrorCause, status int, message string) *SubmissionError {
	return &SubmissionError{
		Kind:       ErrorKindServer,
		Message:    message,
		Cause:      cause,
		StatusCode: status,
	}
}

// Snapshot is a read-only copy of a controller, handed to rendering layers.
type Snapshot struct {
	State          State            `json:"state"`
	Form           FormState        `json:"form"`
	ProfilePicture *profile.Picture `json:"-"`
	Error          *SubmissionError `json:"error,omitempty"`
}

// CanSubmit reports whether the submit control should be enabled.
func (s Snapshot) CanSubmit() bool {
	return s.State == StateEditing
}

// Submitting reports whether a request to the account service is in flight.
func (s Snapshot) Submitting() bool {
	return s.State == StateSubmitting
}

// HasError reports whether an error modal should be displayed.
func (s Snapshot) HasError() bool {
	return s.Error != nil
}

package signup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tendant/simple-profile/pkg/errors"
	"github.com/tendant/simple-profile/pkg/profile"
)

// Outcome labels a finished Submit call for metrics.
type Outcome string

const (
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeServerFailed     Outcome = "server_failed"
	OutcomeSuccess          Outcome = "success"
	OutcomeRejected         Outcome = "rejected"
)

// SubmissionRecorder observes submissions.
type SubmissionRecorder interface {
	RecordSubmission(outcome Outcome, duration time.Duration)
}

// Controller drives one signup form through
// editing → submitting → success | validation failed | server failed.
// It is safe for concurrent use; at most one request to the account
// service is in flight at any time.
type Controller struct {
	accountService AccountService
	navigator      Navigator
	recorder       SubmissionRecorder

	mu       sync.Mutex
	state    State
	form     FormState
	picture  *profile.Picture
	err      *SubmissionError
	inflight chan struct{} // closed when the current submission has fully finished
}

// Option is a functional option for configuring Controller
type Option func(*Controller)

// NewController creates a Controller in the editing state with an empty form.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		state: StateEditing,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithAccountService sets the service that creates accounts
func WithAccountService(s AccountService) Option {
	return func(c *Controller) {
		c.accountService = s
	}
}

// WithNavigator sets the collaborator invoked after a successful signup
func WithNavigator(n Navigator) Option {
	return func(c *Controller) {
		c.navigator = n
	}
}

// WithSubmissionRecorder sets the metrics sink for submissions
func WithSubmissionRecorder(r SubmissionRecorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the controller for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:          c.state,
		Form:           c.form,
		ProfilePicture: c.picture.Clone(),
	}
	if c.err != nil {
		e := *c.err
		e.Missing = append([]Field(nil), c.err.Missing...)
		snap.Error = &e
	}
	return snap
}

// UpdateField writes one form value. Only allowed while editing.
func (c *Controller) UpdateField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return errors.InvalidState("update field", c.state.String())
	}
	return c.form.Set(field, value)
}

// UpdateFieldByName is UpdateField for raw input names.
func (c *Controller) UpdateFieldByName(name, value string) error {
	field, err := ParseField(name)
	if err != nil {
		return err
	}
	return c.UpdateField(field, value)
}

// SetProfilePicture replaces the selected picture; nil removes it. It is
// accepted in every state. A submission in flight keeps the picture it
// started with.
func (c *Controller) SetProfilePicture(p *profile.Picture) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.picture = p.Clone()
}

// Submit validates the form and, when every required field is filled in,
// sends it to the account service. It blocks until the service answers.
//
// The returned State is the state the form ended in. A non-nil error is
// returned only when Submit was not allowed (already submitting, wrong
// state, missing account service) or when navigation after success failed;
// validation and server failures are reported through the state and
// Snapshot().Error.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	c.mu.Lock()
	switch c.state {
	case StateEditing:
	case StateSubmitting:
		c.mu.Unlock()
		c.record(OutcomeRejected, 0)
		return StateSubmitting, errors.New(errors.ErrCodeSubmitInProgress, "a signup request is already in progress")
	default:
		state := c.state
		c.mu.Unlock()
		return state, errors.InvalidState("submit", state.String())
	}

	if missing := c.form.Missing(); len(missing) > 0 {
		c.state = StateValidationFailed
		c.err = validationError(missing)
		c.mu.Unlock()

		slog.Info("Signup form is missing required fields", "missing", missing)
		c.record(OutcomeValidationFailed, 0)
		return StateValidationFailed, nil
	}

	if c.accountService == nil {
		c.mu.Unlock()
		return StateEditing, errors.New(errors.ErrCodeMisconfigured, "no account service configured")
	}

	payload := Payload{
		Fields:         c.form.Values(),
		ProfilePicture: c.picture.Clone(),
	}
	done := make(chan struct{})
	c.state = StateSubmitting
	c.inflight = done
	c.mu.Unlock()

	start := time.Now()
	resp, err := c.accountService.CreateAccount(ctx, payload)
	elapsed := time.Since(start)

	c.mu.Lock()
	next := c.apply(resp, err)
	c.mu.Unlock()

	var navErr error
	if next == StateSuccess {
		c.record(OutcomeSuccess, elapsed)
		navErr = c.navigate(ctx)
	} else {
		c.record(OutcomeServerFailed, elapsed)
	}

	c.mu.Lock()
	c.inflight = nil
	close(done)
	c.mu.Unlock()

	return next, navErr
}

// apply moves the state machine out of StateSubmitting. Caller holds c.mu.
func (c *Controller) apply(resp *AccountResponse, err error) State {
	switch {
	case errors.IsCode(err, errors.ErrCodeTransport):
		slog.Error("Error signing up", "error", err)
		c.fail(serverError(CauseTransport, 0, MessageTransport))
	case err != nil:
		slog.Error("Signup request was not sent", "code", errors.GetCode(err), "error", err)
		c.fail(serverError(CauseInternal, 0, MessageInternal))
	case resp == nil:
		slog.Error("Account service returned no response")
		c.fail(serverError(CauseStatus, 0, MessageServerStatus))
	case resp.Conflict():
		msg := resp.Message
		if msg == "" {
			msg = MessageConflict
		}
		slog.Info("Account service rejected signup", "status", resp.StatusCode, "msg", msg)
		c.fail(serverError(CauseConflict, resp.StatusCode, msg))
	case !resp.OK():
		slog.Error("Account service returned unexpected status", "status", resp.StatusCode)
		c.fail(serverError(CauseStatus, resp.StatusCode, MessageServerStatus))
	default:
		slog.Info("Signup successful", "status", resp.StatusCode, "body", resp.Body)
		c.state = StateSuccess
		c.err = nil
		c.form = FormState{}
		c.picture = nil
	}
	return c.state
}

func (c *Controller) fail(e *SubmissionError) {
	c.state = StateServerFailed
	c.err = e
}

func (c *Controller) navigate(ctx context.Context) error {
	if c.navigator == nil {
		slog.Warn("No navigator configured, staying on signup view")
		return nil
	}
	if err := c.navigator.Navigate(ctx, RouteLogin); err != nil {
		slog.Error("Failed to navigate after signup", "route", RouteLogin, "error", err)
		return errors.Wrap(err, errors.ErrCodeNavigation, "failed to navigate to login")
	}
	return nil
}

// Cancel resets the form, clears the picture and any error, and returns to
// editing. A submission in flight is not interrupted: Cancel waits for it
// to finish first.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.inflight != nil {
		done := c.inflight
		c.mu.Unlock()
		<-done
		c.mu.Lock()
	}

	c.form = FormState{}
	c.picture = nil
	c.err = nil
	c.state = StateEditing
}

// DismissError clears the active error and returns to editing. It does
// nothing when no error is active.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err == nil {
		return
	}
	c.err = nil
	if c.state == StateValidationFailed || c.state == StateServerFailed {
		c.state = StateEditing
	}
}

func (c *Controller) record(outcome Outcome, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordSubmission(outcome, d)
	}
}

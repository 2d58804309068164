package signup

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-profile/pkg/errors"
	"github.com/tendant/simple-profile/pkg/profile"
)

type fakeAccountService struct {
	calls    atomic.Int32
	resp     *AccountResponse
	err      error
	release  chan struct{} // when set, CreateAccount blocks until closed
	started  chan struct{} // when set, closed on the first call
	once     sync.Once
	payloads []Payload
	mu       sync.Mutex
}

func (f *fakeAccountService) CreateAccount(ctx context.Context, payload Payload) (*AccountResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

type recordingNavigator struct {
	routes []Route
	err    error
}

func (n *recordingNavigator) Navigate(ctx context.Context, route Route) error {
	n.routes = append(n.routes, route)
	return n.err
}

type recordingRecorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *recordingRecorder) RecordSubmission(outcome Outcome, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func fillRequired(t *testing.T, c *Controller) {
	t.Helper()
	values := map[Field]string{
		FieldUsername: "janesmith",
		FieldPassword: "s3cret",
		FieldName:     "Jane Smith",
		FieldEmail:    "jane@example.com",
		FieldGender:   "Female",
		FieldAge:      "29",
	}
	for f, v := range values {
		require.NoError(t, c.UpdateField(f, v))
	}
}

func TestSubmit_MissingRequiredFields(t *testing.T) {
	required := RequiredFields()

	// Every non-empty subset of required fields left empty must fail locally.
	for mask := 1; mask < 1<<len(required); mask++ {
		var empty []Field
		for i, f := range required {
			if mask&(1<<i) != 0 {
				empty = append(empty, f)
			}
		}

		t.Run(fmt.Sprint(empty), func(t *testing.T) {
			svc := &fakeAccountService{resp: &AccountResponse{StatusCode: http.StatusOK}}
			c := NewController(WithAccountService(svc))
			fillRequired(t, c)
			for _, f := range empty {
				require.NoError(t, c.UpdateField(f, ""))
			}

			state, err := c.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, StateValidationFailed, state)
			assert.Equal(t, int32(0), svc.calls.Load(), "account service must not be called")

			snap := c.Snapshot()
			require.NotNil(t, snap.Error)
			assert.Equal(t, ErrorKindValidation, snap.Error.Kind)
			assert.Equal(t, "Please fill in all required fields.", snap.Error.Message)
			assert.ElementsMatch(t, empty, snap.Error.Missing)
		})
	}
}

func TestSubmit_BioIsOptional(t *testing.T) {
	svc := &fakeAccountService{resp: &AccountResponse{StatusCode: http.StatusOK}}
	c := NewController(WithAccountService(svc))
	fillRequired(t, c)

	state, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, state)
	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestSubmit_Success(t *testing.T) {
	svc := &fakeAccountService{resp: &AccountResponse{
		StatusCode: http.StatusOK,
		Body:       map[string]interface{}{"msg": "User created"},
	}}
	nav := &recordingNavigator{}
	rec := &recordingRecorder{}
	c := NewController(WithAccountService(svc), WithNavigator(nav), WithSubmissionRecorder(rec))
	fillRequired(t, c)
	require.NoError(t, c.UpdateField(FieldBio, "Hello"))
	pic, err := profile.New("me.png", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)
	c.SetProfilePicture(pic)

	state, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, state)
	assert.Equal(t, []Route{RouteLogin}, nav.routes, "exactly one navigation to login")
	assert.Equal(t, []Outcome{OutcomeSuccess}, rec.outcomes)

	require.Len(t, svc.payloads, 1)
	payload := svc.payloads[0]
	require.Len(t, payload.Fields, len(Fields()))
	assert.Equal(t, "janesmith", payload.Value(FieldUsername))
	assert.Equal(t, "Hello", payload.Value(FieldBio))
	require.NotNil(t, payload.ProfilePicture)
	assert.Equal(t, "me.png", payload.ProfilePicture.Name)

	snap := c.Snapshot()
	assert.Nil(t, snap.Error)
	assert.True(t, snap.Form.IsZero(), "form is discarded after success")
	assert.Nil(t, snap.ProfilePicture)

	// Success is terminal.
	_, err = c.Submit(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidState))
	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestSubmit_Conflict(t *testing.T) {
	svc := &fakeAccountService{resp: &AccountResponse{
		StatusCode: http.StatusConflict,
		Message:    "Username taken",
	}}
	nav := &recordingNavigator{}
	c := NewController(WithAccountService(svc), WithNavigator(nav))
	fillRequired(t, c)

	state, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateServerFailed, state)
	assert.Empty(t, nav.routes)

	snap := c.Snapshot()
	require.NotNil(t, snap.Error)
	assert.Equal(t, ErrorKindServer, snap.Error.Kind)
	assert.Equal(t, CauseConflict, snap.Error.Cause)
	assert.Equal(t, "Username taken", snap.Error.Message)
	assert.Equal(t, "janesmith", snap.Form.Username, "form is kept for correction")
}

func TestSubmit_ConflictWithoutMessage(t *testing.T) {
	svc := &fakeAccountService{resp: &AccountResponse{StatusCode: http.StatusConflict}}
	c := NewController(WithAccountService(svc))
	fillRequired(t, c)

	state, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateServerFailed, state)
	assert.Equal(t, MessageConflict, c.Snapshot().Error.Message)
}

func TestSubmit_ServerFailures(t *testing.T) {
	tests := []struct {
		name    string
		resp    *AccountResponse
		err     error
		cause   ErrorCause
		status  int
		message string
	}{
		{
			name:    "internal server error",
			resp:    &AccountResponse{StatusCode: http.StatusInternalServerError, Message: "boom"},
			cause:   CauseStatus,
			status:  http.StatusInternalServerError,
			message: MessageServerStatus,
		},
		{
			name:    "bad request",
			resp:    &AccountResponse{StatusCode: http.StatusBadRequest},
			cause:   CauseStatus,
			status:  http.StatusBadRequest,
			message: MessageServerStatus,
		},
		{
			name:    "transport failure",
			err:     errors.Wrap(fmt.Errorf("dial tcp: connection refused"), errors.ErrCodeTransport, "signup request failed"),
			cause:   CauseTransport,
			message: MessageTransport,
		},
		{
			name:    "request not sent",
			err:     errors.InternalWrap(fmt.Errorf("multipart: write failed"), "failed to encode signup field"),
			cause:   CauseInternal,
			message: MessageInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{resp: tt.resp, err: tt.err}
			nav := &recordingNavigator{}
			c := NewController(WithAccountService(svc), WithNavigator(nav))
			fillRequired(t, c)

			state, err := c.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, StateServerFailed, state)
			assert.Equal(t, int32(1), svc.calls.Load(), "no retries")
			assert.Empty(t, nav.routes)

			snap := c.Snapshot()
			require.NotNil(t, snap.Error)
			assert.Equal(t, ErrorKindServer, snap.Error.Kind)
			assert.Equal(t, tt.cause, snap.Error.Cause)
			assert.Equal(t, tt.status, snap.Error.StatusCode)
			assert.Equal(t, tt.message, snap.Error.Message)
		})
	}
}

func TestSubmit_RetryAfterDismiss(t *testing.T) {
	svc := &fakeAccountService{resp: &AccountResponse{StatusCode: http.StatusServiceUnavailable}}
	c := NewController(WithAccountService(svc))
	fillRequired(t, c)

	state, _ := c.Submit(context.Background())
	require.Equal(t, StateServerFailed, state)

	// Submitting again without dismissing is not allowed.
	_, err := c.Submit(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidState))

	c.DismissError()
	assert.Equal(t, StateEditing, c.State())

	svc.resp = &AccountResponse{StatusCode: http.StatusCreated}
	state, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, state)
	assert.Equal(t, int32(2), svc.calls.Load())
}

func TestSubmit_WhileSubmittingIsNoop(t *testing.T) {
	svc := &fakeAccountService{
		resp:    &AccountResponse{StatusCode: http.StatusOK},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	rec := &recordingRecorder{}
	c := NewController(WithAccountService(svc), WithSubmissionRecorder(rec))
	fillRequired(t, c)

	result := make(chan State, 1)
	go func() {
		state, _ := c.Submit(context.Background())
		result <- state
	}()
	<-svc.started

	assert.Equal(t, StateSubmitting, c.State())
	assert.False(t, c.Snapshot().CanSubmit())

	state, err := c.Submit(context.Background())
	assert.Equal(t, StateSubmitting, state)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSubmitInProgress))

	// Fields are locked while in flight; the picture may change but the
	// request keeps the one it started with.
	assert.True(t, errors.IsCode(c.UpdateField(FieldName, "x"), errors.ErrCodeInvalidState))
	late, err := profile.New("late.png", "image/png", []byte{1})
	require.NoError(t, err)
	c.SetProfilePicture(late)

	close(svc.release)
	assert.Equal(t, StateSuccess, <-result)
	assert.Equal(t, int32(1), svc.calls.Load(), "only one network call")
	assert.Contains(t, rec.outcomes, OutcomeRejected)
	require.Len(t, svc.payloads, 1)
	assert.Nil(t, svc.payloads[0].ProfilePicture)
}

func TestSubmit_NavigationFailure(t *testing.T) {
	svc := &fakeAccountService{resp: &AccountResponse{StatusCode: http.StatusOK}}
	nav := &recordingNavigator{err: fmt.Errorf("router gone")}
	c := NewController(WithAccountService(svc), WithNavigator(nav))
	fillRequired(t, c)

	state, err := c.Submit(context.Background())
	assert.Equal(t, StateSuccess, state)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNavigation))
	assert.Equal(t, StateSuccess, c.State())
}

func TestSubmit_WithoutAccountService(t *testing.T) {
	c := NewController()
	fillRequired(t, c)

	state, err := c.Submit(context.Background())
	assert.Equal(t, StateEditing, state)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMisconfigured))
}

func TestCancel_FromAnyState(t *testing.T) {
	setups := map[string]func(t *testing.T, c *Controller, svc *fakeAccountService){
		"editing": func(t *testing.T, c *Controller, svc *fakeAccountService) {
			fillRequired(t, c)
		},
		"validation failed": func(t *testing.T, c *Controller, svc *fakeAccountService) {
			require.NoError(t, c.UpdateField(FieldBio, "only bio"))
			_, _ = c.Submit(context.Background())
			require.Equal(t, StateValidationFailed, c.State())
		},
		"server failed": func(t *testing.T, c *Controller, svc *fakeAccountService) {
			svc.resp = &AccountResponse{StatusCode: http.StatusConflict, Message: "Username taken"}
			fillRequired(t, c)
			_, _ = c.Submit(context.Background())
			require.Equal(t, StateServerFailed, c.State())
		},
		"success": func(t *testing.T, c *Controller, svc *fakeAccountService) {
			fillRequired(t, c)
			_, _ = c.Submit(context.Background())
			require.Equal(t, StateSuccess, c.State())
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			svc := &fakeAccountService{resp: &AccountResponse{StatusCode: http.StatusOK}}
			c := NewController(WithAccountService(svc))
			pic, err := profile.New("me.png", "image/png", []byte{1})
			require.NoError(t, err)
			c.SetProfilePicture(pic)
			setup(t, c, svc)

			c.Cancel()

			snap := c.Snapshot()
			assert.Equal(t, StateEditing, snap.State)
			assert.True(t, snap.Form.IsZero())
			assert.Nil(t, snap.ProfilePicture)
			assert.Nil(t, snap.Error)
		})
	}
}

func TestCancel_WaitsForInFlightSubmission(t *testing.T) {
	svc := &fakeAccountService{
		resp:    &AccountResponse{StatusCode: http.StatusInternalServerError},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	c := NewController(WithAccountService(svc))
	fillRequired(t, c)

	go func() { _, _ = c.Submit(context.Background()) }()
	<-svc.started

	cancelled := make(chan struct{})
	go func() {
		c.Cancel()
		close(cancelled)
	}()

	select {
	case <-cancelled:
		t.Fatal("Cancel returned while a submission was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(svc.release)
	<-cancelled

	snap := c.Snapshot()
	assert.Equal(t, StateEditing, snap.State)
	assert.Nil(t, snap.Error)
	assert.True(t, snap.Form.IsZero())
}

func TestDismissError(t *testing.T) {
	c := NewController(WithAccountService(&fakeAccountService{}))

	// No active error: nothing changes.
	require.NoError(t, c.UpdateField(FieldName, "Jane"))
	before := c.Snapshot()
	c.DismissError()
	c.DismissError()
	assert.Equal(t, before, c.Snapshot())

	_, _ = c.Submit(context.Background())
	require.Equal(t, StateValidationFailed, c.State())

	c.DismissError()
	snap := c.Snapshot()
	assert.Equal(t, StateEditing, snap.State)
	assert.Nil(t, snap.Error)
	assert.Equal(t, "Jane", snap.Form.Name, "dismiss keeps the form")

	c.DismissError()
	assert.Equal(t, snap, c.Snapshot())
}

func TestUpdateFieldByName(t *testing.T) {
	c := NewController()

	require.NoError(t, c.UpdateFieldByName("email", "jane@example.com"))
	assert.Equal(t, "jane@example.com", c.Snapshot().Form.Email)

	err := c.UpdateFieldByName("nickname", "jj")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownField))
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewController()
	pic, err := profile.New("me.png", "image/png", []byte{1, 2})
	require.NoError(t, err)
	c.SetProfilePicture(pic)

	snap := c.Snapshot()
	snap.ProfilePicture.Data[0] = 42
	pic.Data[1] = 42

	again := c.Snapshot()
	assert.Equal(t, []byte{1, 2}, again.ProfilePicture.Data)
}

func TestSetProfilePicture_AnyState(t *testing.T) {
	pic, err := profile.New("me.png", "image/png", []byte{1, 2})
	require.NoError(t, err)

	t.Run("validation failed", func(t *testing.T) {
		c := NewController(WithAccountService(&fakeAccountService{}))
		state, err := c.Submit(context.Background())
		require.NoError(t, err)
		require.Equal(t, StateValidationFailed, state)

		c.SetProfilePicture(pic)
		assert.Equal(t, "me.png", c.Snapshot().ProfilePicture.Name)
		assert.Equal(t, StateValidationFailed, c.State())

		c.SetProfilePicture(nil)
		assert.Nil(t, c.Snapshot().ProfilePicture)
		assert.NotNil(t, c.Snapshot().Error, "the error stays until dismissed")
	})

	t.Run("server failed", func(t *testing.T) {
		svc := &fakeAccountService{resp: &AccountResponse{StatusCode: http.StatusInternalServerError}}
		c := NewController(WithAccountService(svc))
		fillRequired(t, c)
		state, err := c.Submit(context.Background())
		require.NoError(t, err)
		require.Equal(t, StateServerFailed, state)

		c.SetProfilePicture(pic)
		assert.Equal(t, "me.png", c.Snapshot().ProfilePicture.Name)
		assert.Equal(t, StateServerFailed, c.State())

		c.SetProfilePicture(nil)
		assert.Nil(t, c.Snapshot().ProfilePicture)
	})
}

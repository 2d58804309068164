package webui

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	pkgerrors "github.com/tendant/simple-profile/pkg/errors"
	"github.com/tendant/simple-profile/pkg/signup"
)

// FormView is the form as reported by the API. The password is never
// echoed back.
type FormView struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
	Bio      string `json:"bio"`
	Age      string `json:"age"`
}

type PictureView struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type SignupResponse struct {
	State          signup.State            `json:"state"`
	Form           FormView                `json:"form"`
	PasswordSet    bool                    `json:"password_set"`
	ProfilePicture *PictureView            `json:"profile_picture,omitempty"`
	Error          *signup.SubmissionError `json:"error,omitempty"`
	CanSubmit      bool                    `json:"can_submit"`
	Redirect       string                  `json:"redirect,omitempty"`
}

type ErrorResponse struct {
	Code    pkgerrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

// FieldsRequest is a partial form update. Omitted fields keep their value;
// an empty string clears a field.
type FieldsRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Gender   *string `json:"gender"`
	Bio      *string `json:"bio"`
	Age      *string `json:"age"`
}

func (req *FieldsRequest) Bind(r *http.Request) error {
	if req.Username == nil && req.Password == nil && req.Name == nil && req.Email == nil &&
		req.Gender == nil && req.Bio == nil && req.Age == nil {
		return pkgerrors.InvalidInput("fields", "no fields given")
	}
	return nil
}

// GET /api/signup
func (h *Handle) GetSignupState(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	render.JSON(w, r, newSignupResponse(sess.Controller.Snapshot()))
}

// PUT /api/signup/fields
func (h *Handle) PutFields(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	data := &FieldsRequest{}
	if err := render.Bind(r, data); err != nil {
		slog.Error("Failed to decode signup fields", "error", err)
		renderError(w, r, pkgerrors.Wrap(err, pkgerrors.ErrCodeInvalidInput, "Unable to parse request body"))
		return
	}

	snap := sess.Controller.Snapshot()
	if !snap.CanSubmit() {
		renderError(w, r, pkgerrors.InvalidState("update field", snap.State.String()))
		return
	}

	form := snap.Form
	if err := copier.CopyWithOption(&form, data, copier.Option{IgnoreEmpty: true}); err != nil {
		renderError(w, r, pkgerrors.InternalWrap(err, "failed to apply signup fields"))
		return
	}
	for _, f := range signup.Fields() {
		value := form.Get(f)
		if value == snap.Form.Get(f) {
			continue
		}
		if err := sess.Controller.UpdateField(f, value); err != nil {
			renderError(w, r, err)
			return
		}
	}

	render.JSON(w, r, newSignupResponse(sess.Controller.Snapshot()))
}

// POST /api/signup/submit
func (h *Handle) PostSubmit(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	state, err := sess.Controller.Submit(r.Context())
	if err != nil && state != signup.StateSuccess {
		renderError(w, r, err)
		return
	}

	resp := newSignupResponse(sess.Controller.Snapshot())
	if state == signup.StateSuccess {
		route := sess.TakeRoute()
		if route == "" {
			route = signup.RouteLogin
		}
		resp.Redirect = string(route)
		h.endSession(w, sess)
	}

	switch state {
	case signup.StateValidationFailed:
		render.Status(r, http.StatusUnprocessableEntity)
	case signup.StateServerFailed:
		render.Status(r, http.StatusBadGateway)
		if resp.Error != nil && resp.Error.Cause == signup.CauseConflict {
			render.Status(r, http.StatusConflict)
		}
	}
	render.JSON(w, r, resp)
}

// POST /api/signup/cancel
func (h *Handle) PostCancelAPI(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.Cancel()
	render.JSON(w, r, newSignupResponse(sess.Controller.Snapshot()))
}

// POST /api/signup/dismiss
func (h *Handle) PostDismissAPI(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.DismissError()
	render.JSON(w, r, newSignupResponse(sess.Controller.Snapshot()))
}

func newSignupResponse(snap signup.Snapshot) SignupResponse {
	resp := SignupResponse{
		State:       snap.State,
		PasswordSet: snap.Form.Password != "",
		Error:       snap.Error,
		CanSubmit:   snap.CanSubmit(),
	}
	copier.Copy(&resp.Form, &snap.Form)
	if snap.ProfilePicture != nil {
		resp.ProfilePicture = &PictureView{}
		copier.Copy(resp.ProfilePicture, snap.ProfilePicture)
	}
	return resp
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := pkgerrors.GetCode(err)
	message := err.Error()
	if e, ok := err.(*pkgerrors.Error); ok {
		message = e.Message
	}
	render.Status(r, pkgerrors.MapErrorCodeToHTTPStatus(code))
	render.JSON(w, r, ErrorResponse{Code: code, Message: message})
}

package webui

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-profile/pkg/config"
	pkgerrors "github.com/tendant/simple-profile/pkg/errors"
	"github.com/tendant/simple-profile/pkg/profile"
	"github.com/tendant/simple-profile/pkg/signup"
)

// multipartOverhead is the allowance for form fields and part headers on
// top of the picture size limit.
const multipartOverhead = 1 << 20

type Handle struct {
	store           *SessionStore
	controllerOpts  []signup.Option
	web             config.WebConfig
	maxPictureBytes int64
	metricsHandler  http.Handler
}

type Option func(*Handle)

func NewHandle(opts ...Option) *Handle {
	h := &Handle{
		web:             config.DefaultWebConfig(),
		maxPictureBytes: profile.DefaultMaxBytes,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.store == nil {
		h.store = NewSessionStore(h.web.SessionTTL, h.controllerOpts...)
	}
	return h
}

func WithAccountService(s signup.AccountService) Option {
	return func(h *Handle) {
		h.controllerOpts = append(h.controllerOpts, signup.WithAccountService(s))
	}
}

func WithSubmissionRecorder(r signup.SubmissionRecorder) Option {
	return func(h *Handle) {
		h.controllerOpts = append(h.controllerOpts, signup.WithSubmissionRecorder(r))
	}
}

func WithWebConfig(cfg config.WebConfig) Option {
	return func(h *Handle) {
		h.web = cfg
	}
}

func WithUploadConfig(cfg config.UploadConfig) Option {
	return func(h *Handle) {
		h.maxPictureBytes = cfg.MaxProfilePictureBytes
	}
}

// WithSessionStore replaces the store built from the other options.
func WithSessionStore(store *SessionStore) Option {
	return func(h *Handle) {
		h.store = store
	}
}

// WithMetricsHandler exposes handler on GET /metrics.
func WithMetricsHandler(handler http.Handler) Option {
	return func(h *Handle) {
		h.metricsHandler = handler
	}
}

// Handler returns the routes of the signup front end.
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, string(signup.RouteSignup), http.StatusFound)
	})
	r.Get("/signup", h.GetSignup)
	r.Post("/signup", h.PostSignup)
	r.Post("/signup/cancel", h.PostCancel)
	r.Post("/signup/dismiss", h.PostDismiss)
	r.Get("/signup/picture", h.GetPicture)
	r.Post("/signup/picture/remove", h.PostRemovePicture)
	r.Get("/login", h.GetLogin)

	r.Route("/api/signup", func(r chi.Router) {
		r.Get("/", h.GetSignupState)
		r.Put("/fields", h.PutFields)
		r.Post("/submit", h.PostSubmit)
		r.Post("/cancel", h.PostCancelAPI)
		r.Post("/dismiss", h.PostDismissAPI)
	})

	if h.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", h.metricsHandler)
	}

	return r
}

// GET /signup
func (h *Handle) GetSignup(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.renderSignup(w, http.StatusOK, sess, "")
}

// POST /signup
func (h *Handle) PostSignup(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPictureBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.renderSignup(w, http.StatusRequestEntityTooLarge, sess, pictureTooLargeNotice(h.maxPictureBytes))
			return
		}
		slog.Error("Failed to parse signup form", "error", err)
		h.renderSignup(w, http.StatusBadRequest, sess, "The form could not be read. Please try again.")
		return
	}

	for _, f := range signup.Fields() {
		values, ok := r.PostForm[string(f)]
		if !ok || len(values) == 0 {
			continue
		}
		if err := sess.Controller.UpdateField(f, values[0]); err != nil {
			slog.Warn("Rejected signup field update", "field", f, "error", err)
			h.renderSignup(w, statusFor(err), sess, "")
			return
		}
	}

	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File[signup.ProfilePictureField]; len(headers) > 0 && headers[0].Size > 0 {
			pic, err := profile.FromMultipart(headers[0], h.maxPictureBytes)
			if err != nil {
				slog.Warn("Rejected profile picture", "error", err)
				notice := "The selected picture could not be read."
				if pkgerrors.IsCode(err, pkgerrors.ErrCodeFileTooLarge) {
					notice = pictureTooLargeNotice(h.maxPictureBytes)
				}
				h.renderSignup(w, statusFor(err), sess, notice)
				return
			}
			sess.Controller.SetProfilePicture(pic)
		}
	}

	state, err := sess.Controller.Submit(r.Context())
	if err != nil && state != signup.StateSuccess {
		slog.Warn("Signup submit not accepted", "state", state, "error", err)
		h.renderSignup(w, statusFor(err), sess, "")
		return
	}

	if state == signup.StateSuccess {
		h.finish(w, r, sess)
		return
	}
	h.renderSignup(w, http.StatusOK, sess, "")
}

// POST /signup/cancel
func (h *Handle) PostCancel(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.Cancel()
	http.Redirect(w, r, string(signup.RouteSignup), http.StatusSeeOther)
}

// POST /signup/dismiss
func (h *Handle) PostDismiss(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.DismissError()
	http.Redirect(w, r, string(signup.RouteSignup), http.StatusSeeOther)
}

// GET /signup/picture
func (h *Handle) GetPicture(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	pic := sess.Controller.Snapshot().ProfilePicture
	if pic == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", pic.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", pic.Name))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := w.Write(pic.Data); err != nil {
		slog.Error("Failed to write profile picture", "error", err)
	}
}

// POST /signup/picture/remove
func (h *Handle) PostRemovePicture(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.SetProfilePicture(nil)
	http.Redirect(w, r, string(signup.RouteSignup), http.StatusSeeOther)
}

// GET /login
func (h *Handle) GetLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "login", nil); err != nil {
		slog.Error("Failed to render login page", "error", err)
	}
}

// session returns the caller's session, starting one and setting the
// cookie when there is none.
func (h *Handle) session(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(h.web.SessionCookieName); err == nil {
		if sess, ok := h.store.Get(cookie.Value); ok {
			return sess
		}
	}

	sess := h.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     h.web.SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.web.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// finish follows the route recorded by the session navigator and drops
// the session.
func (h *Handle) finish(w http.ResponseWriter, r *http.Request, sess *Session) {
	route := sess.TakeRoute()
	if route == "" {
		route = signup.RouteLogin
	}
	h.endSession(w, sess)
	slog.Info("Signup finished, redirecting", "route", route)
	http.Redirect(w, r, string(route), http.StatusSeeOther)
}

func (h *Handle) endSession(w http.ResponseWriter, sess *Session) {
	h.store.Delete(sess.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     h.web.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.web.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handle) renderSignup(w http.ResponseWriter, status int, sess *Session, notice string) {
	page := newSignupPage(sess.Controller.Snapshot(), notice)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, "signup", page); err != nil {
		slog.Error("Failed to render signup page", "error", err)
	}
}

func statusFor(err error) int {
	return pkgerrors.MapErrorCodeToHTTPStatus(pkgerrors.GetCode(err))
}

func pictureTooLargeNotice(maxBytes int64) string {
	if maxBytes >= 1<<20 {
		return fmt.Sprintf("The selected picture is larger than %d MB.", maxBytes>>20)
	}
	return fmt.Sprintf("The selected picture is larger than %d bytes.", maxBytes)
}

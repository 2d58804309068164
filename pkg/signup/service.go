package signup

import (
	"context"
	"net/http"

	"github.com/tendant/simple-profile/pkg/profile"
)

// Payload is everything sent to the account service for one submission.
type Payload struct {
	Fields         []FieldValue
	ProfilePicture *profile.Picture
}

// Value returns the submitted value of a field.
func (p Payload) Value(f Field) string {
	for _, fv := range p.Fields {
		if fv.Field == f {
			return fv.Value
		}
	}
	return ""
}

// AccountResponse is the account service's answer to a create request.
type AccountResponse struct {
	StatusCode int
	// Message is the "msg" field of a JSON body, if any.
	Message string
	// Body is the decoded JSON body, nil when the body was empty or not JSON.
	Body map[string]interface{}
}

// OK reports a 2xx status.
func (r *AccountResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Conflict reports a 409 status.
func (r *AccountResponse) Conflict() bool {
	return r.StatusCode == http.StatusConflict
}

// AccountService creates accounts. An error means no response was received;
// HTTP failure statuses come back as a response.
type AccountService interface {
	CreateAccount(ctx context.Context, payload Payload) (*AccountResponse, error)
}

// Route identifies a view the user can be sent to.
type Route string

const (
	RouteLogin  Route = "/login"
	RouteSignup Route = "/signup"
	RouteHome   Route = "/"
)

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(ctx context.Context, route Route) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, route Route) error

func (f NavigatorFunc) Navigate(ctx context.Context, route Route) error {
	return f(ctx, route)
}

// Package signup provides the signup form controller for simple-profile.
//
// The controller owns the form values, the optional profile picture and the
// single error shown to the user, and walks them through a small state
// machine. Rendering layers (see pkg/webui and pkg/tui) only translate user
// gestures into controller calls and draw Snapshot values.
//
// # Overview
//
// The signup package provides:
//   - FormState with the username, password, name, email, gender, bio and age fields
//   - Required-field validation before any network I/O
//   - One request to the AccountService per submission, never overlapping
//   - Navigation to the login view after a successful signup
//   - Dismissible validation and server errors
//
// # State Machine
//
//	editing ──submit──▶ submitting ──2xx──▶ success (navigate to /login)
//	   │                    │
//	   │                    ├──409──▶ server_failed (message from body "msg")
//	   │                    ├──other status──▶ server_failed
//	   │                    └──no response──▶ server_failed
//	   └──missing fields──▶ validation_failed
//
//	validation_failed / server_failed ──dismiss──▶ editing
//	any state ──cancel──▶ editing (form and picture cleared)
//
// # Basic Usage
//
//	import "github.com/tendant/simple-profile/pkg/signup"
//
//	controller := signup.NewController(
//		signup.WithAccountService(accountclient.New(cfg)),
//		signup.WithNavigator(navigator),
//	)
//
//	_ = controller.UpdateField(signup.FieldUsername, "janesmith")
//	_ = controller.UpdateField(signup.FieldPassword, "secret")
//	// ...
//
//	state, err := controller.Submit(ctx)
//	if err != nil {
//		// Submit was not allowed, e.g. errors.ErrCodeSubmitInProgress
//	}
//	switch state {
//	case signup.StateValidationFailed, signup.StateServerFailed:
//		snap := controller.Snapshot()
//		fmt.Println(snap.Error.Message)
//		controller.DismissError()
//	case signup.StateSuccess:
//		// navigator has been called with signup.RouteLogin
//	}
//
// # Concurrency
//
// Submit holds no lock while the account service is called. A second Submit
// during that time returns errors.ErrCodeSubmitInProgress without contacting
// the service. Cancel waits for an in-flight submission to finish before
// resetting the form.
package signup

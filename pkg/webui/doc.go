// Package webui serves the signup form to browsers.
//
// Every browser gets its own signup.Controller, kept in a SessionStore and
// found through the signup_session cookie. The HTML pages post back to the
// server; the same operations are available as JSON under /api/signup.
//
//	h := webui.NewHandle(
//		webui.WithAccountService(accountclient.New(cfg)),
//		webui.WithWebConfig(config.NewWebConfigFromEnv()),
//	)
//	r.Mount("/", webui.Handler(h))
//
// A successful signup redirects to the login view and ends the session.
package webui

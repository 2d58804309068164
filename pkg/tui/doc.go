// Package tui is the terminal front end of the signup form, built on
// bubbletea.
//
// Model wraps a signup.Controller. Tab and the arrow keys move between the
// fields, left/right choose the gender, ctrl+s or the Save button submits.
// Submissions run as a tea.Cmd so the screen stays responsive. Errors show
// in a modal that enter or esc dismisses. After a successful signup the
// program quits and Result reports ResultLogin.
package tui

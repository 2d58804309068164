package webui

import (
	"html/template"

	"github.com/tendant/simple-profile/pkg/profile"
	"github.com/tendant/simple-profile/pkg/signup"
)

const layoutTemplate = `{{define "head"}}<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px 16px;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      color: #1a1f36;
      background: #f7f9fc;
    }
    .card {
      background: #ffffff;
      max-width: 480px;
      margin: 0 auto;
      padding: 32px;
      border-radius: 4px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
    }
    h1 { margin: 0 0 24px; font-size: 22px; }
    label { display: block; font-size: 12px; font-weight: 600; color: #4f566b; margin: 16px 0 6px; }
    input, select, textarea { width: 100%; padding: 8px 10px; font-size: 14px; border: 1px solid #d8dee4; border-radius: 4px; }
    textarea { min-height: 80px; }
    .required { color: #cd3d64; }
    .notice { margin-top: 16px; padding: 10px; background: #fff4e5; border-radius: 4px; font-size: 13px; }
    .picture { margin-top: 8px; display: flex; align-items: center; gap: 12px; font-size: 13px; }
    .picture img { width: 64px; height: 64px; object-fit: cover; border-radius: 50%; }
    .actions { display: flex; gap: 12px; margin-top: 24px; }
    button { padding: 10px 18px; font-size: 14px; border-radius: 4px; border: 1px solid #d8dee4; background: #ffffff; cursor: pointer; }
    button.primary { background: #635bff; border-color: #635bff; color: #ffffff; }
    button:disabled { opacity: 0.5; cursor: not-allowed; }
    .backdrop { position: fixed; inset: 0; background: rgba(26,31,54,0.45); display: flex; align-items: center; justify-content: center; }
    .modal { background: #ffffff; padding: 24px; border-radius: 4px; max-width: 360px; width: 100%; }
    .modal h2 { margin: 0 0 12px; font-size: 18px; }
  </style>
</head>
<body>
{{end}}
{{define "foot"}}</body>
</html>
{{end}}`

const signupTemplate = `{{define "signup"}}{{template "head" "Sign up"}}
<div class="card">
  <h1>Create your account</h1>
  <form method="post" action="/signup" enctype="multipart/form-data">
    {{range .Fields}}
    <label for="{{.Name}}">{{.Label}}{{if .Required}} <span class="required">*</span>{{end}}</label>
    {{if eq .Name "gender"}}
    <select id="{{.Name}}" name="{{.Name}}">
      <option value="">Select…</option>
      {{$current := .Value}}{{range $.GenderOptions}}<option value="{{.}}"{{if eq . $current}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    {{else if eq .Name "bio"}}
    <textarea id="{{.Name}}" name="{{.Name}}">{{.Value}}</textarea>
    {{else}}
    <input id="{{.Name}}" name="{{.Name}}" type="{{.Type}}" value="{{.Value}}" />
    {{end}}
    {{end}}

    <label for="profilePicture">Profile picture</label>
    <input id="profilePicture" name="profilePicture" type="file" accept="image/*" />
    {{with .Picture}}
    <div class="picture">
      {{if .IsImage}}<img src="/signup/picture" alt="Profile picture preview" />{{end}}
      <span>{{.Name}}</span>
      <button type="submit" form="remove-picture">Remove</button>
    </div>
    {{end}}

    {{with .Notice}}<div class="notice">{{.}}</div>{{end}}

    <div class="actions">
      <button class="primary" type="submit"{{if not .CanSubmit}} disabled{{end}}>{{if .Submitting}}Saving…{{else}}Save{{end}}</button>
      <button type="submit" formaction="/signup/cancel" formenctype="application/x-www-form-urlencoded">Cancel</button>
    </div>
  </form>
  <form id="remove-picture" method="post" action="/signup/picture/remove"></form>
</div>
{{with .Error}}
<div class="backdrop">
  <div class="modal" role="alertdialog">
    <h2>{{if eq .Kind "validation"}}Missing information{{else}}Signup failed{{end}}</h2>
    <p>{{.Message}}</p>
    <form method="post" action="/signup/dismiss">
      <button class="primary" type="submit" autofocus>OK</button>
    </form>
  </div>
</div>
{{end}}
{{template "foot"}}{{end}}`

const loginTemplate = `{{define "login"}}{{template "head" "Log in"}}
<div class="card">
  <h1>Log in</h1>
  <p>Your account has been created. Log in to continue.</p>
</div>
{{template "foot"}}{{end}}`

var pages = template.Must(template.New("pages").Parse(layoutTemplate + signupTemplate + loginTemplate))

type fieldView struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
}

type signupPage struct {
	Fields        []fieldView
	GenderOptions []string
	Picture       *profile.Picture
	Error         *signup.SubmissionError
	CanSubmit     bool
	Submitting    bool
	Notice        string
}

func newSignupPage(snap signup.Snapshot, notice string) signupPage {
	page := signupPage{
		GenderOptions: signup.GenderOptions,
		Error:         snap.Error,
		CanSubmit:     snap.CanSubmit(),
		Submitting:    snap.Submitting(),
		Notice:        notice,
		Picture:       snap.ProfilePicture,
	}

	for _, f := range signup.Fields() {
		page.Fields = append(page.Fields, fieldView{
			Name:     string(f),
			Label:    f.Label(),
			Type:     inputType(f),
			Value:    snap.Form.Get(f),
			Required: f.Required(),
		})
	}
	return page
}

func inputType(f signup.Field) string {
	switch f {
	case signup.FieldPassword:
		return "password"
	case signup.FieldEmail:
		return "email"
	case signup.FieldAge:
		return "number"
	}
	return "text"
}

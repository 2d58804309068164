package signup

import (
	"github.com/tendant/simple-profile/pkg/errors"
)

// Field names a signup form input. The string value is also the multipart
// part name sent to the account service.
type Field string

const (
	FieldUsername Field = "username"
	FieldPassword Field = "password"
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldGender   Field = "gender"
	FieldBio      Field = "bio"
	FieldAge      Field = "age"
)

// ProfilePictureField is the multipart part name of the optional picture.
const ProfilePictureField = "profilePicture"

// GenderOptions are the choices offered by the rendering layers.
var GenderOptions = []string{"Male", "Female", "Non Binary"}

var allFields = []Field{
	FieldUsername,
	FieldPassword,
	FieldName,
	FieldEmail,
	FieldGender,
	FieldBio,
	FieldAge,
}

var requiredFields = []Field{
	FieldUsername,
	FieldPassword,
	FieldName,
	FieldEmail,
	FieldGender,
	FieldAge,
}

// Fields returns every form field in submission order.
func Fields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// RequiredFields returns the fields that must be non-empty before submitting.
func RequiredFields() []Field {
	out := make([]Field, len(requiredFields))
	copy(out, requiredFields)
	return out
}

// ParseField converts a form input name into a Field.
func ParseField(name string) (Field, error) {
	for _, f := range allFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrCodeUnknownField, "unknown form field %q", name).
		WithDetail("field", name)
}

// Required reports whether the field must be filled in.
func (f Field) Required() bool {
	for _, r := range requiredFields {
		if r == f {
			return true
		}
	}
	return false
}

// Label is the human readable name shown next to the input.
func (f Field) Label() string {
	switch f {
	case FieldUsername:
		return "Username"
	case FieldPassword:
		return "Password"
	case FieldName:
		return "Name"
	case FieldEmail:
		return "Email address"
	case FieldGender:
		return "Gender"
	case FieldBio:
		return "About"
	case FieldAge:
		return "Age"
	}
	return string(f)
}

// FormState holds the editable values of the signup form. The zero value is
// the default (every field empty).
type FormState struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
	Bio      string `json:"bio"`
	Age      string `json:"age"`
}

// FieldValue is one name/value pair of the form.
type FieldValue struct {
	Field Field
	Value string
}

// Get returns the value of a field.
func (s FormState) Get(f Field) string {
	if p := s.ref(f); p != nil {
		return *p
	}
	return ""
}

// Set writes a field value.
func (s *FormState) Set(f Field, value string) error {
	p := s.ref(f)
	if p == nil {
		return errors.Newf(errors.ErrCodeUnknownField, "unknown form field %q", string(f)).
			WithDetail("field", string(f))
	}
	*p = value
	return nil
}

// Values returns all fields in submission order.
func (s FormState) Values() []FieldValue {
	values := make([]FieldValue, 0, len(allFields))
	for _, f := range allFields {
		values = append(values, FieldValue{Field: f, Value: s.Get(f)})
	}
	return values
}

// Missing returns the required fields that are currently empty.
func (s FormState) Missing() []Field {
	var missing []Field
	for _, f := range requiredFields {
		if s.Get(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsZero reports whether every field still holds its default.
func (s FormState) IsZero() bool {
	return s == FormState{}
}

func (s *FormState) ref(f Field) *string {
	switch f {
	case FieldUsername:
		return &s.Username
	case FieldPassword:
		return &s.Password
	case FieldName:
		return &s.Name
	case FieldEmail:
		return &s.Email
	case FieldGender:
		return &s.Gender
	case FieldBio:
		return &s.Bio
	case FieldAge:
		return &s.Age
	}
	return nil
}

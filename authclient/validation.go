package authclient

// Registration messages shown next to form fields. Kept aligned with what
// the backend's own validators would say so a visitor sees the same wording
// whether the check happens locally or server-side.
const (
	msgEmailRequired     = "Email is required"
	msgUsernameRequired  = "Username is required"
	msgPasswordRequired  = "Password is required"
	msgPasswordTooShort  = "Password must be at least 8 characters"
	msgPasswordsMismatch = "Passwords do not match"
)

const minPasswordLength = 8

// ValidationError carries per-field registration messages. It blocks the
// network call entirely: the API is never consulted for a form that fails
// these checks.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for _, field := range []string{"email", "username", "password", "password2"} {
		if msg, ok := e.Fields[field]; ok {
			return msg
		}
	}
	return "invalid registration form"
}

// FieldError returns the message for a field, or "".
func (e *ValidationError) FieldError(field string) string {
	return e.Fields[field]
}

// ValidateRegistration applies the client-side form rules: all fields
// required, password at least 8 characters, confirmation must match.
func ValidateRegistration(form RegistrationForm) error {
	fields := make(map[string]string)

	if form.Email == "" {
		fields["email"] = msgEmailRequired
	}
	if form.Username == "" {
		fields["username"] = msgUsernameRequired
	}
	if form.Password == "" {
		fields["password"] = msgPasswordRequired
	} else if len(form.Password) < minPasswordLength {
		fields["password"] = msgPasswordTooShort
	}
	if form.Password != form.Password2 {
		fields["password2"] = msgPasswordsMismatch
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

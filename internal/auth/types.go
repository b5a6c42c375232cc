package auth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/salem/coop-finder/internal/models"
)

// FormTypeSignup and FormTypeLogin discriminate the combined account
// endpoint's payload.
const (
	FormTypeSignup = "signup"
	FormTypeLogin  = "login"
)

type SignupRequest struct {
	FullName  string `json:"full_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AccountRequest is the combined signup/login body. Exactly one of the two
// field sets is read, depending on FormType.
type AccountRequest struct {
	FormType string `json:"form_type"`
	SignupRequest
	LoginRequest
}

type AuthResponse struct {
	Token   string          `json:"token"`
	User    models.User     `json:"user"`
	Student *models.Student `json:"student,omitempty"`
}

// ValidationError carries field-level messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, taken := e.Fields[field]; !taken {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() *ValidationError {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// normalize trims the request in place and lowercases the email.
func (r *SignupRequest) normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// validate runs the local checks: required fields, email shape, password
// confirmation, and the strength check. Uniqueness is the store's job.
// The mismatch is reported on password2, matching the form field a user
// has to fix.
func (r SignupRequest) validate() *ValidationError {
	ve := &ValidationError{}

	if r.FullName == "" {
		ve.add("full_name", "This field is required.")
	}
	if r.Username == "" {
		ve.add("username", "This field is required.")
	}
	if r.Email == "" {
		ve.add("email", "This field is required.")
	} else if !emailPattern.MatchString(r.Email) {
		ve.add("email", "Enter a valid email address.")
	}
	if r.Password1 == "" {
		ve.add("password1", "This field is required.")
	}
	if r.Password2 == "" {
		ve.add("password2", "This field is required.")
	}

	if r.Password1 != "" && r.Password2 != "" && r.Password1 != r.Password2 {
		ve.add("password2", "Passwords do not match.")
	}
	if r.Password1 != "" {
		if msg := checkPasswordStrength(r.Password1, r.Username); msg != "" {
			ve.add("password1", msg)
		}
	}

	return ve.orNil()
}

func checkPasswordStrength(password, username string) string {
	if len(password) < 8 {
		return "This password is too short. It must contain at least 8 characters."
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return "This password is entirely numeric."
	}
	if username != "" && strings.EqualFold(password, username) {
		return "The password is too similar to the username."
	}
	return ""
}

// identifierIsEmail reports whether a login identifier should be resolved
// as an email address rather than a username.
func identifierIsEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}

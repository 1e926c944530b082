package domain

import "unicode/utf8"

// JokeFieldErrors holds per-field validation messages. Empty means valid.
type JokeFieldErrors struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
}

// Any reports whether at least one field failed validation.
func (e JokeFieldErrors) Any() bool {
	return e.Name != "" || e.Content != ""
}

// ValidateJokeName returns a message when the name is too short.
func ValidateJokeName(name string) string {
	if utf8.RuneCountInString(name) < MinJokeNameLength {
		return "That joke's name is too short"
	}
	return ""
}

// ValidateJokeContent returns a message when the content is too short.
func ValidateJokeContent(content string) string {
	if utf8.RuneCountInString(content) < MinJokeContentLength {
		return "That joke is too short"
	}
	return ""
}

// ValidateJoke runs every joke field check. Both the speculative preview and the
// authoritative create path call this, so they cannot disagree.
func ValidateJoke(name, content string) JokeFieldErrors {
	return JokeFieldErrors{
		Name:    ValidateJokeName(name),
		Content: ValidateJokeContent(content),
	}
}

// Credential length minimums for signup and login.
const (
	MinUsernameLength = 3
	MinPasswordLength = 6

	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// CredentialFieldErrors holds per-field messages for the login form.
type CredentialFieldErrors struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Any reports whether at least one field failed validation.
func (e CredentialFieldErrors) Any() bool {
	return e.Username != "" || e.Password != ""
}

// ValidateCredentials checks username and password lengths.
func ValidateCredentials(username, password string) CredentialFieldErrors {
	var errs CredentialFieldErrors
	if utf8.RuneCountInString(username) < MinUsernameLength {
		errs.Username = "Usernames must be at least 3 characters long"
	}
	switch {
	case utf8.RuneCountInString(password) < MinPasswordLength:
		errs.Password = "Passwords must be at least 6 characters long"
	case len(password) > MaxPasswordBytes:
		errs.Password = "Passwords must be at most 72 bytes long"
	}
	return errs
}

package domain

import "time"

// Joke length minimums. They are checked when a joke is submitted, not by storage.
const (
	MinJokeNameLength    = 3
	MinJokeContentLength = 10
)

// User is a registered jokester.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Joke is a short text record owned by the user that created it.
// JokesterID is set once at creation and never reassigned.
type Joke struct {
	ID         string    `json:"id"`
	JokesterID string    `json:"jokesterId"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Viewer is the identity a request acts on behalf of.
// The zero value is an anonymous viewer.
type Viewer struct {
	UserID string
}

// Anonymous returns a viewer with no identity.
func Anonymous() Viewer {
	return Viewer{}
}

// ViewerOf returns a viewer for the given user id.
func ViewerOf(userID string) Viewer {
	return Viewer{UserID: userID}
}

// Authenticated reports whether the viewer carries an identity.
func (v Viewer) Authenticated() bool {
	return v.UserID != ""
}

// Owns reports whether the viewer created the joke. Anonymous viewers own nothing.
func (v Viewer) Owns(j *Joke) bool {
	return j != nil && v.Authenticated() && v.UserID == j.JokesterID
}

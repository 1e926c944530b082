// Package view holds the HTML templates and the page models rendered into them.
package view

import (
	"embed"
	"html/template"
	"net/url"

	"github.com/dustin/go-humanize"

	"jokeshare/src/core/domain"
	"jokeshare/src/core/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	JokesPage       = "jokes.html"
	JokePage        = "joke.html"
	NewJokePage     = "new_joke.html"
	JokePreviewPage = "joke_preview.html"
	LoginPage       = "login.html"
	ErrorPage       = "error.html"
)

// Templates parses every embedded template. It panics on a malformed template,
// which can only happen at startup.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"humanize": humanize.Time,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// Filter is the listing query carried from page to page.
type Filter struct {
	UserID string
	Search string
}

// Input converts the filter to use case input.
func (f Filter) Input() usecase.ListJokesInput {
	return usecase.ListJokesInput{UserID: f.UserID, Search: f.Search}
}

// Query encodes the filter as a query string with a leading "?", or "" when empty.
func (f Filter) Query() string {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.UserID != "" {
		v.Set("userId", f.UserID)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Layout is shared by every page. Listing is nil on pages rendered outside
// the jokes layout.
type Layout struct {
	Title       string
	Description string
	Listing     *usecase.JokeListing
	Filter      Filter
}

// JokeDisplay renders one joke. Permalink is empty for jokes not yet stored.
type JokeDisplay struct {
	Joke      *domain.Joke `json:"joke"`
	IsOwner   bool         `json:"isOwner"`
	CanDelete bool         `json:"canDelete"`
	Permalink string       `json:"-"`
}

// Joke is the single joke page.
type Joke struct {
	Layout
	Display JokeDisplay
}

// NewJoke is the new joke form, possibly re-rendered with errors.
type NewJoke struct {
	Layout
	Fields      usecase.JokeFields
	FieldErrors domain.JokeFieldErrors
	FormError   string
}

// NewJokeFromAction fills the form state from a rejected submission.
func NewJokeFromAction(layout Layout, data *usecase.JokeActionData) NewJoke {
	page := NewJoke{Layout: layout}
	if data == nil {
		return page
	}
	if data.Fields != nil {
		page.Fields = *data.Fields
	}
	if data.FieldErrors != nil {
		page.FieldErrors = *data.FieldErrors
	}
	if data.FormError != nil {
		page.FormError = *data.FormError
	}
	return page
}

// Login is the login/register form.
type Login struct {
	Layout
	RedirectTo  string
	Fields      usecase.LoginFields
	FieldErrors domain.CredentialFieldErrors
	FormError   string
}

// LoginFromAction fills the form state from a rejected attempt.
func LoginFromAction(layout Layout, redirectTo string, data *usecase.LoginActionData) Login {
	page := Login{Layout: layout, RedirectTo: redirectTo}
	if data == nil {
		return page
	}
	if data.Fields != nil {
		page.Fields = *data.Fields
	}
	if data.FieldErrors != nil {
		page.FieldErrors = *data.FieldErrors
	}
	if data.FormError != nil {
		page.FormError = *data.FormError
	}
	return page
}

// Error is an error page. LoginURL, when set, offers a login link.
type Error struct {
	Layout
	Message  string
	LoginURL string
}

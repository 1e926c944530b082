// Package handler contains HTTP handlers for the site.
// Handlers are responsible for:
// - Parsing form and query input
// - Calling use case methods with the request's viewer
// - Rendering HTML pages, or JSON for clients that ask for it
package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"jokeshare/src/app/http/response"
	"jokeshare/src/app/http/view"
	"jokeshare/src/app/middleware"
)

// DefaultRedirect is where logins land when no safe target was given.
const DefaultRedirect = "/jokes"

// SafeRedirect returns to when it is a local path, and DefaultRedirect otherwise.
func SafeRedirect(to string) string {
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.HasPrefix(to, "/\\") {
		return DefaultRedirect
	}
	return to
}

// loginURL sends the user back to the current page after logging in.
func loginURL(c *gin.Context) string {
	return "/login?" + url.Values{"redirectTo": {c.Request.URL.RequestURI()}}.Encode()
}

// requireLogin answers an anonymous request: JSON clients get a 401 envelope,
// browsers are redirected to the login page.
func requireLogin(c *gin.Context, message string) {
	if response.WantsJSON(c) {
		response.Unauthorized(c, message, middleware.GetRequestID(c))
		return
	}
	c.Redirect(http.StatusFound, loginURL(c))
}

// postForm returns a pointer to the submitted value, or nil when the field is absent.
func postForm(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}

// filterOf reads the listing filter from the query string. The user selector
// submits "all" for no filter.
func filterOf(c *gin.Context) view.Filter {
	userID := c.Query("userId")
	if userID == "all" {
		userID = ""
	}
	return view.Filter{UserID: userID, Search: c.Query("search")}
}

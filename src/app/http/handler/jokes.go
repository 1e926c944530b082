package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"jokeshare/src/app/http/response"
	"jokeshare/src/app/http/view"
	"jokeshare/src/app/middleware"
	"jokeshare/src/core/usecase"
	"jokeshare/src/infra/logger"
)

const (
	siteTitle       = "Remix: So great, it's funny!"
	siteDescription = "Remix jokes app. Learn Remix and laugh at the same time!"
)

// JokeHandler serves the jokes pages.
type JokeHandler struct {
	jokes *usecase.JokeService
	log   *slog.Logger
}

func NewJokeHandler(jokes *usecase.JokeService, log *slog.Logger) *JokeHandler {
	return &JokeHandler{jokes: jokes, log: logger.WithComponent(log, "jokes")}
}

// layout loads the sidebar listing shared by every jokes page.
func (h *JokeHandler) layout(c *gin.Context, title, description string) (view.Layout, error) {
	filter := filterOf(c)
	listing, err := h.jokes.List(c.Request.Context(), middleware.GetViewer(c), filter.Input())
	if err != nil {
		return view.Layout{}, err
	}
	return view.Layout{
		Title:       title,
		Description: description,
		Listing:     listing,
		Filter:      filter,
	}, nil
}

// List renders the jokes index.
// GET /jokes
func (h *JokeHandler) List(c *gin.Context) {
	layout, err := h.layout(c, siteTitle, siteDescription)
	if err != nil {
		h.unexpected(c, err)
		return
	}
	if response.WantsJSON(c) {
		c.JSON(http.StatusOK, layout.Listing)
		return
	}
	c.HTML(http.StatusOK, view.JokesPage, layout)
}

// Show renders one joke.
// GET /jokes/:jokeId
func (h *JokeHandler) Show(c *gin.Context) {
	jokeID := c.Param("jokeId")
	jv, err := h.jokes.Get(c.Request.Context(), middleware.GetViewer(c), jokeID)
	if err != nil {
		h.jokeError(c, jokeID, err)
		return
	}
	if response.WantsJSON(c) {
		c.JSON(http.StatusOK, jv)
		return
	}

	layout, err := h.layout(c,
		fmt.Sprintf("%s joke", jv.Joke.Name),
		fmt.Sprintf("Enjoy the %s joke and much more", jv.Joke.Name),
	)
	if err != nil {
		h.unexpected(c, err)
		return
	}
	c.HTML(http.StatusOK, view.JokePage, view.Joke{
		Layout: layout,
		Display: view.JokeDisplay{
			Joke:      jv.Joke,
			IsOwner:   jv.IsOwner,
			CanDelete: true,
			Permalink: "/jokes/" + url.PathEscape(jv.Joke.ID),
		},
	})
}

// Delete removes a joke owned by the viewer.
// POST /jokes/:jokeId
func (h *JokeHandler) Delete(c *gin.Context) {
	jokeID := c.Param("jokeId")
	err := h.jokes.Delete(c.Request.Context(), middleware.GetViewer(c), jokeID, c.PostForm("intent"))
	if err != nil {
		if response.StatusOf(err) == http.StatusUnauthorized {
			requireLogin(c, "You must be logged in to delete a joke")
			return
		}
		h.jokeError(c, jokeID, err)
		return
	}
	c.Redirect(http.StatusFound, "/jokes")
}

// New renders the new joke form.
// GET /jokes/new
func (h *JokeHandler) New(c *gin.Context) {
	if !middleware.GetViewer(c).Authenticated() {
		h.newJokeError(c, http.StatusUnauthorized, "You must be logged in to create a joke.")
		return
	}
	layout, err := h.layout(c, siteTitle, siteDescription)
	if err != nil {
		h.unexpected(c, err)
		return
	}
	c.HTML(http.StatusOK, view.NewJokePage, view.NewJoke{Layout: layout})
}

// Create stores a new joke, or shows the form again with what went wrong.
// POST /jokes/new
func (h *JokeHandler) Create(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	res, err := h.jokes.Create(c.Request.Context(), viewer, usecase.JokeSubmission{
		Name:    postForm(c, "name"),
		Content: postForm(c, "content"),
	})
	if err != nil {
		if response.StatusOf(err) == http.StatusUnauthorized {
			requireLogin(c, "You must be logged in to create a joke.")
			return
		}
		h.unexpected(c, err)
		return
	}

	if res.Invalid != nil {
		if response.WantsJSON(c) {
			c.JSON(http.StatusBadRequest, res.Invalid)
			return
		}
		layout, err := h.layout(c, siteTitle, siteDescription)
		if err != nil {
			h.unexpected(c, err)
			return
		}
		c.HTML(http.StatusBadRequest, view.NewJokePage, view.NewJokeFromAction(layout, res.Invalid))
		return
	}

	target := "/jokes/" + url.PathEscape(res.Joke.ID) + "?" + url.Values{"userId": {viewer.UserID}}.Encode()
	c.Redirect(http.StatusFound, target)
}

// Preview renders the joke a pending submission is expected to create, so the
// page can show it before the store answers. Submissions that would be
// rejected get 204 and nothing is shown.
// POST /jokes/new/preview
func (h *JokeHandler) Preview(c *gin.Context) {
	joke, ok := h.jokes.Speculate(middleware.GetViewer(c), usecase.JokeSubmission{
		Name:    postForm(c, "name"),
		Content: postForm(c, "content"),
	})
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	display := view.JokeDisplay{Joke: joke, IsOwner: true, CanDelete: false}
	if response.WantsJSON(c) {
		c.JSON(http.StatusOK, display)
		return
	}
	c.HTML(http.StatusOK, view.JokePreviewPage, display)
}

// jokeError renders a failed joke page with a message chosen by status.
func (h *JokeHandler) jokeError(c *gin.Context, jokeID string, err error) {
	status := response.StatusOf(err)
	if status == http.StatusInternalServerError {
		h.logUnexpected(c, err)
	}
	if response.WantsJSON(c) {
		_ = c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	var msg string
	switch status {
	case http.StatusBadRequest:
		msg = "What you're trying to do is not allowed."
	case http.StatusForbidden:
		msg = fmt.Sprintf("Sorry, but %s is not your joke.", jokeID)
	case http.StatusNotFound:
		msg = fmt.Sprintf("Huh? What the heck is %s?", jokeID)
	default:
		msg = fmt.Sprintf("There was an error loading joke by the id %s. Sorry", jokeID)
	}
	h.renderError(c, status, view.Error{Message: msg}, "No joke", "No joke found")
}

// newJokeError renders a failed new joke page.
func (h *JokeHandler) newJokeError(c *gin.Context, status int, msg string) {
	if response.WantsJSON(c) {
		if status == http.StatusUnauthorized {
			response.Unauthorized(c, msg, middleware.GetRequestID(c))
		} else {
			response.InternalError(c, middleware.GetRequestID(c))
		}
		return
	}
	page := view.Error{Message: msg}
	if status == http.StatusUnauthorized {
		page.LoginURL = loginURL(c)
	}
	h.renderError(c, status, page, siteTitle, siteDescription)
}

// unexpected handles errors no page has a message for.
func (h *JokeHandler) unexpected(c *gin.Context, err error) {
	h.logUnexpected(c, err)
	if response.WantsJSON(c) {
		_ = c.Error(err)
		response.InternalError(c, middleware.GetRequestID(c))
		return
	}
	c.HTML(http.StatusInternalServerError, view.ErrorPage, view.Error{
		Layout:  view.Layout{Title: siteTitle},
		Message: "Something unexpected went wrong. Sorry about that.",
	})
}

// renderError shows page inside the jokes layout. If the listing itself cannot
// be loaded the page is shown bare.
func (h *JokeHandler) renderError(c *gin.Context, status int, page view.Error, title, description string) {
	layout, err := h.layout(c, title, description)
	if err != nil {
		h.logUnexpected(c, err)
		layout = view.Layout{Title: title, Description: description}
	}
	page.Layout = layout
	c.HTML(status, view.ErrorPage, page)
}

func (h *JokeHandler) logUnexpected(c *gin.Context, err error) {
	logger.WithRequestID(h.log, middleware.GetRequestID(c)).Error("request failed",
		"path", c.Request.URL.Path,
		"error", err,
	)
}

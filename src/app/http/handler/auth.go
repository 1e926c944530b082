package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jokeshare/src/app/http/response"
	"jokeshare/src/app/http/view"
	"jokeshare/src/app/middleware"
	"jokeshare/src/core/usecase"
	"jokeshare/src/infra/logger"
	"jokeshare/src/infra/session"
)

var loginLayout = view.Layout{
	Title:       "Remix Jokes | Login",
	Description: "Login to submit your own jokes to Remix Jokes!",
}

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	auth     *usecase.AuthService
	sessions *session.Store
	log      *slog.Logger
}

func NewAuthHandler(auth *usecase.AuthService, sessions *session.Store, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		log:      logger.WithComponent(log, "auth"),
	}
}

// LoginForm renders the login/register form.
// GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	page := view.LoginFromAction(loginLayout, c.Query("redirectTo"), nil)
	page.Fields.LoginType = usecase.LoginTypeLogin
	c.HTML(http.StatusOK, view.LoginPage, page)
}

// Login logs in or registers, then starts a session and redirects.
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	redirectTo := SafeRedirect(c.PostForm("redirectTo"))

	res, err := h.auth.Authenticate(c.Request.Context(), usecase.LoginSubmission{
		LoginType: postForm(c, "loginType"),
		Username:  postForm(c, "username"),
		Password:  postForm(c, "password"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	if res.Invalid != nil {
		if response.WantsJSON(c) {
			c.JSON(http.StatusBadRequest, res.Invalid)
			return
		}
		c.HTML(http.StatusBadRequest, view.LoginPage, view.LoginFromAction(loginLayout, redirectTo, res.Invalid))
		return
	}

	if err := h.sessions.Create(c.Writer, c.Request, res.User.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, redirectTo)
}

// Logout ends the session.
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Writer, c.Request); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) fail(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)
	logger.WithRequestID(h.log, requestID).Error("authentication failed", "error", err)
	_ = c.Error(err)
	if response.WantsJSON(c) {
		response.InternalError(c, requestID)
		return
	}
	c.HTML(http.StatusInternalServerError, view.ErrorPage, view.Error{
		Layout:  loginLayout,
		Message: "Something unexpected went wrong. Sorry about that.",
	})
}

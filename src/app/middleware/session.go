package middleware

import (
	"github.com/gin-gonic/gin"

	"jokeshare/src/core/domain"
	"jokeshare/src/infra/session"
)

// ViewerKey is the context key holding the request's domain.Viewer.
const ViewerKey = "viewer"

// Session resolves the viewer from the session cookie and stores it in the
// context. Requests without a valid session carry an anonymous viewer.
// It never rejects a request; handlers decide what needs an identity.
func Session(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := domain.Anonymous()
		if userID, ok := store.UserID(c.Request); ok {
			viewer = domain.ViewerOf(userID)
		}
		c.Set(ViewerKey, viewer)
		c.Next()
	}
}

// GetViewer returns the viewer stored by Session, or an anonymous viewer.
func GetViewer(c *gin.Context) domain.Viewer {
	if v, exists := c.Get(ViewerKey); exists {
		if viewer, ok := v.(domain.Viewer); ok {
			return viewer
		}
	}
	return domain.Anonymous()
}

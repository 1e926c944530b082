package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"

	"jokeshare/src/app/http/response"
	"jokeshare/src/app/middleware"
	"jokeshare/src/core/usecase"
	"jokeshare/src/infra/config"
	"jokeshare/src/infra/logger"
)

// feedCacheControl lets clients and proxies keep the feed for four weeks.
const feedCacheControl = "public, max-age=2419200"

// FeedHandler serves the RSS feed.
type FeedHandler struct {
	jokes *usecase.JokeService
	cfg   config.FeedConfig
	log   *slog.Logger
}

func NewFeedHandler(jokes *usecase.JokeService, cfg config.FeedConfig, log *slog.Logger) *FeedHandler {
	return &FeedHandler{jokes: jokes, cfg: cfg, log: logger.WithComponent(log, "feed")}
}

// RSS renders the latest jokes as RSS 2.0.
// GET /jokes.rss
func (h *FeedHandler) RSS(c *gin.Context) {
	jokes, err := h.jokes.Feed(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	origin := requestOrigin(c)
	feed := &feeds.Feed{
		Title:       h.cfg.Title,
		Link:        &feeds.Link{Href: origin + "/jokes"},
		Description: h.cfg.Description,
		Created:     time.Now(),
	}
	for _, j := range jokes {
		link := origin + "/jokes/" + url.PathEscape(j.ID)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       j.Name,
			Link:        &feeds.Link{Href: link},
			Description: fmt.Sprintf("A funny joke called %s", j.Name),
			Author:      &feeds.Author{Name: j.JokesterUsername},
			Created:     j.CreatedAt,
		})
	}
	if len(jokes) > 0 {
		feed.Updated = jokes[0].CreatedAt
	}

	rss, err := feed.ToRss()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", feedCacheControl)
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(rss))
}

// requestOrigin rebuilds scheme://host, honouring proxy headers.
func requestOrigin(c *gin.Context) string {
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	proto := c.GetHeader("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
		if c.Request.TLS != nil {
			proto = "https"
		}
	}
	return proto + "://" + host
}

func (h *FeedHandler) fail(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)
	logger.WithRequestID(h.log, requestID).Error("feed failed", "error", err)
	_ = c.Error(err)
	response.InternalError(c, requestID)
}

// Package server exposes searches and session views as a JSON API for the
// browser front end.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/rank"
	"github.com/jimezsa/jobassist/internal/search"
	"github.com/jimezsa/jobassist/internal/session"
	"github.com/rs/zerolog"
)

// Searcher runs one search for a set of criteria.
type Searcher interface {
	Run(ctx context.Context, criteria models.SearchCriteria) (search.Outcome, error)
}

type Options struct {
	// AllowOrigins lists CORS origins. Empty or "*" allows every origin.
	AllowOrigins []string
	Debug        bool
}

type Server struct {
	searcher Searcher
	store    *session.Store
	ranker   rank.Ranker
	logger   zerolog.Logger
	engine   *gin.Engine
}

type searchRequest struct {
	models.SearchCriteria
	UseAPI    *bool  `json:"use_api"`
	SessionID string `json:"session_id"`
	Platform  string `json:"platform"`
	Sort      string `json:"sort"`
}

type searchResponse struct {
	SessionID    string              `json:"session_id"`
	Query        string              `json:"query"`
	Listings     []models.JobListing `json:"listings"`
	Total        int                 `json:"total"`
	Platforms    []string            `json:"platforms"`
	UsedFallback bool                `json:"used_fallback"`
	Warnings     []string            `json:"warnings"`
}

type listingsResponse struct {
	SessionID string              `json:"session_id"`
	Platform  string              `json:"platform"`
	Sort      rank.SortKey        `json:"sort"`
	Listings  []models.JobListing `json:"listings"`
	Total     int                 `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(searcher Searcher, store *session.Store, logger zerolog.Logger, opts Options) *Server {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		searcher: searcher,
		store:    store,
		logger:   logger.With().Str("component", "server").Logger(),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))
	router.Use(cors.New(corsConfig(opts.AllowOrigins)))

	router.GET("/healthz", s.health)
	api := router.Group("/api")
	{
		api.POST("/search", s.search)
		api.GET("/sessions/:id/listings", s.listings)
		api.GET("/sessions/:id/listings/:index", s.listing)
	}

	s.engine = router
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	key, err := rank.ParseSortKey(req.Sort)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !search.ValidExperience(req.Experience) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown experience: " + req.Experience})
		return
	}

	criteria := req.SearchCriteria
	criteria.UseAPI = req.UseAPI == nil || *req.UseAPI

	outcome, err := s.searcher.Run(c.Request.Context(), criteria)
	if err != nil {
		if errors.Is(err, search.ErrMissingKeywords) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.logger.Error().Err(err).Msg("search failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "search failed"})
		return
	}

	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		id = s.store.Create().ID
	}
	sess, err := s.store.Update(id, func(sess *session.Session) error {
		sess.Replace(criteria, outcome.Listings, outcome.Warnings, time.Now())
		return nil
	})
	if errors.Is(err, session.ErrNotFound) {
		sess, err = s.store.Update(s.store.Create().ID, func(sess *session.Session) error {
			sess.Replace(criteria, outcome.Listings, outcome.Warnings, time.Now())
			return nil
		})
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("store session")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "store session failed"})
		return
	}

	view := sess.View(s.ranker, req.Platform, key)
	warnings := outcome.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	c.JSON(http.StatusOK, searchResponse{
		SessionID:    sess.ID,
		Query:        outcome.Query,
		Listings:     view,
		Total:        len(sess.Results),
		Platforms:    platformsOf(sess.Results),
		UsedFallback: outcome.UsedFallback,
		Warnings:     warnings,
	})
}

func (s *Server) listings(c *gin.Context) {
	sess, key, ok := s.loadView(c)
	if !ok {
		return
	}
	platform := c.Query("platform")
	c.JSON(http.StatusOK, listingsResponse{
		SessionID: sess.ID,
		Platform:  platformLabel(platform),
		Sort:      key,
		Listings:  sess.View(s.ranker, platform, key),
		Total:     len(sess.Results),
	})
}

func (s *Server) listing(c *gin.Context) {
	_, key, ok := s.loadView(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "index must be an integer"})
		return
	}

	var selected models.JobListing
	_, err = s.store.Update(c.Param("id"), func(sess *session.Session) error {
		view := sess.View(s.ranker, c.Query("platform"), key)
		listing, selectErr := sess.Select(view, index)
		selected = listing
		return selectErr
	})
	if err != nil {
		s.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, selected)
}

func (s *Server) loadView(c *gin.Context) (*session.Session, rank.SortKey, bool) {
	key, err := rank.ParseSortKey(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, "", false
	}
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.writeSessionError(c, err)
		return nil, "", false
	}
	return sess, key, true
}

func (s *Server) writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrIndexOutOfRange):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		s.logger.Error().Err(err).Msg("session request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// platformsOf returns the filter choices for a result set: the sentinel
// followed by each distinct platform in first-seen order.
func platformsOf(listings []models.JobListing) []string {
	platforms := []string{rank.AllPlatforms}
	seen := make(map[string]struct{}, len(listings))
	for _, listing := range listings {
		key := strings.ToLower(listing.Platform)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		platforms = append(platforms, listing.Platform)
	}
	return platforms
}

func platformLabel(filter string) string {
	if rank.IsAllPlatforms(filter) {
		return rank.AllPlatforms
	}
	return filter
}

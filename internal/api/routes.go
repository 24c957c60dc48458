// Package api exposes the recommendation pipeline over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"altrec/backend/internal/recommend"
)

// Version is stamped at build time.
var Version = "dev"

// Recommender runs the pipeline for one query.
type Recommender interface {
	Run(ctx *gin.Context, q recommend.Query) (*recommend.Result, error)
}

// pipelineRecommender adapts recommend.Pipeline to the handler interface.
type pipelineRecommender struct {
	pipeline *recommend.Pipeline
}

func (r *pipelineRecommender) Run(c *gin.Context, q recommend.Query) (*recommend.Result, error) {
	return r.pipeline.Run(c.Request.Context(), q)
}

// Config carries what the HTTP layer needs to know about the runtime.
type Config struct {
	Environment    string
	AllowedOrigins []string
	Model          string
	Credentials    int
	SearchTimeout  time.Duration
}

// Server holds the handlers and their dependencies.
type Server struct {
	cfg      Config
	rec      Recommender
	notifier *ProgressNotifier
	logger   logrus.FieldLogger
}

// NewServer builds a Server around a pipeline.
func NewServer(cfg Config, pipeline *recommend.Pipeline, notifier *ProgressNotifier, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		cfg:      cfg,
		rec:      &pipelineRecommender{pipeline: pipeline},
		notifier: notifier,
		logger:   logger,
	}
}

// Router assembles the gin engine with CORS and all routes.
func (s *Server) Router() (*gin.Engine, error) {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) == 1 && s.cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.AllowedOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsCfg))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/healthz", s.handleHealth)
		apiGroup.GET("/config", s.handleConfig)
		apiGroup.POST("/recommend", s.handleRecommend)
		if s.notifier != nil {
			apiGroup.GET("/recommend/stream", s.notifier.Handle)
		}
	}
	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Version: Version})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, configResponse{
		Environment:   s.cfg.Environment,
		Model:         s.cfg.Model,
		Credentials:   s.cfg.Credentials,
		SearchTimeout: s.cfg.SearchTimeout.String(),
	})
}

func (s *Server) handleRecommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, http.StatusBadRequest, err)
		return
	}

	res, err := s.rec.Run(c, req.Query())
	if err != nil {
		var verr *recommend.ValidationError
		if errors.As(err, &verr) {
			s.logger.WithFields(logrus.Fields{
				"url":       req.URL,
				"found":     verr.Found,
				"discarded": verr.Discarded,
			}).Warn("no usable alternatives for request")
			c.JSON(http.StatusServiceUnavailable, errorResponse{
				Error: "no usable alternatives found, try again shortly",
				Detail: map[string]any{
					"found":     verr.Found,
					"discarded": verr.Discarded,
				},
			})
			return
		}
		s.logger.WithError(err).WithField("url", req.URL).Error("recommendation failed")
		renderError(c, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	c.JSON(http.StatusOK, res)
}

func renderError(c *gin.Context, status int, err error) {
	c.JSON(status, errorResponse{Error: err.Error()})
}

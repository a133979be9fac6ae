package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/heraerp/coa/internal/assignment"
	"github.com/heraerp/coa/internal/model"
	"github.com/heraerp/coa/internal/persist"
)

// Server exposes the assignment service over HTTP. The routes mirror the
// assignment persistence API the HTTP store consumes, so one workspace can
// serve others.
type Server struct {
	svc *assignment.Service
	log zerolog.Logger
}

// New creates a Server around an assignment service.
func New(svc *assignment.Service, log zerolog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	v1 := r.Group("/api/v1/coa")
	{
		v1.GET("/templates", s.listTemplates)
		v1.GET("/recommend", s.recommend)
		v1.POST("/validate", s.validate)
		v1.POST("/assignment", s.assign)
		v1.GET("/assignment/:organizationId", s.getAssignment)
		v1.PUT("/assignment/:organizationId", s.putAssignment)
		v1.GET("/assignment/:organizationId/history", s.getHistory)
		v1.POST("/assignment/:organizationId/history", s.postHistory)
	}
	return r
}

// assignRequest is the POST /assignment body. Context is optional; without
// it only the lightweight request checks run.
type assignRequest struct {
	Request model.CoaAssignmentRequest `json:"request"`
	Context *model.OrganizationContext `json:"context,omitempty"`
}

func (s *Server) listTemplates(c *gin.Context) {
	templates, err := s.svc.AvailableTemplates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (s *Server) recommend(c *gin.Context) {
	rec := assignment.RecommendTemplates(assignment.Profile{
		Country:  c.Query("country"),
		Industry: c.Query("industry"),
	})
	c.JSON(http.StatusOK, rec)
}

func (s *Server) validate(c *gin.Context) {
	var body assignRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Context == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "context is required for validation"})
		return
	}
	c.JSON(http.StatusOK, s.svc.ValidateAssignment(&body.Request, body.Context))
}

func (s *Server) assign(c *gin.Context) {
	var body assignRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.svc.AssignTemplate(c.Request.Context(), &body.Request, body.Context)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func (s *Server) getAssignment(c *gin.Context) {
	cfg, err := s.svc.OrganizationAssignment(c.Request.Context(), c.Param("organizationId"))
	if errors.Is(err, persist.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no configuration assigned"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// putAssignment stores a configuration as-is. Together with postHistory it
// forms the raw persistence API the HTTP store consumes; POST /assignment
// stays the validated high-level operation.
func (s *Server) putAssignment(c *gin.Context) {
	var cfg model.OrganizationCoaConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cfg.OrganizationID != c.Param("organizationId") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organization_id does not match the path"})
		return
	}
	if err := s.svc.SaveAssignment(c.Request.Context(), &cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) postHistory(c *gin.Context) {
	var rec model.CoaAssignmentHistory
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rec.OrganizationID != c.Param("organizationId") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organization_id does not match the path"})
		return
	}
	if err := s.svc.RecordHistory(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) getHistory(c *gin.Context) {
	records, err := s.svc.AssignmentHistory(c.Request.Context(), c.Param("organizationId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []model.CoaAssignmentHistory{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harrisonrobin/dosely/pkg/medication"
	"github.com/harrisonrobin/dosely/pkg/model"
	"github.com/harrisonrobin/dosely/pkg/schedule"
)

// MedicationLister lists every stored profile.
type MedicationLister interface {
	ListMedications(ctx context.Context) ([]model.MedicationProfile, error)
}

// Server holds what the handlers need. Medication and Owner are used when a
// request leaves them out; Now supplies "today" when no date is given.
type Server struct {
	Builder    *schedule.Builder
	Meds       MedicationLister
	Medication string
	Owner      string
	Location   *time.Location
	Now        func() time.Time
}

type scheduleResponse struct {
	Medication string                 `json:"medication"`
	Owner      string                 `json:"owner"`
	Date       string                 `json:"date"`
	Events     []model.ScheduledEvent `json:"events"`
}

// NewRouter builds the gin engine with request logging through zerolog.
func NewRouter(s *Server) *gin.Engine {
	if s.Location == nil {
		s.Location = time.Local
	}
	if s.Now == nil {
		s.Now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := r.Group("/api")
	group.GET("/schedule", ResolveEndpoint(s.getSchedule))
	group.GET("/medications", ResolveEndpoint(s.listMedications))
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

// GET /api/schedule?medication=&owner=&date=YYYY-MM-DD
func (s *Server) getSchedule(c *gin.Context) (any, *APIError) {
	name := c.DefaultQuery("medication", s.Medication)
	owner := c.DefaultQuery("owner", s.Owner)
	if name == "" || owner == "" {
		return nil, &APIError{Code: http.StatusBadRequest, Message: "medication and owner are required"}
	}

	today := s.Now().In(s.Location)
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation(time.DateOnly, raw, s.Location)
		if err != nil {
			return nil, &APIError{Code: http.StatusBadRequest, Message: "date must be YYYY-MM-DD"}
		}
		today = d
	}

	events, err := s.Builder.Build(c.Request.Context(), name, owner, today)
	if err != nil {
		return nil, errorFor(err)
	}
	if events == nil {
		events = []model.ScheduledEvent{}
	}
	return scheduleResponse{
		Medication: name,
		Owner:      owner,
		Date:       model.DayKey(today),
		Events:     events,
	}, nil
}

// GET /api/medications
func (s *Server) listMedications(c *gin.Context) (any, *APIError) {
	profiles, err := s.Meds.ListMedications(c.Request.Context())
	if err != nil {
		return nil, errorFor(err)
	}
	entries := make([]medication.Entry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, medication.EntryFor(p))
	}
	return entries, nil
}

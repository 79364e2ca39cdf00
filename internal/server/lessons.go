package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/pipeline"
)

// CreateLessonRequest is the body of POST /v1/lessons.
type CreateLessonRequest struct {
	Request    lesson.Request     `json:"request"`
	Extraction *lesson.Extraction `json:"extraction,omitempty"`
}

// POST /v1/lessons
func (s *Server) createLesson(c *gin.Context) {
	var body CreateLessonRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, APIError{Code: "invalid_json", Message: err.Error()})
		return
	}

	ctx := c.Request.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	res, err := s.gen.Generate(ctx, body.Request, body.Extraction)
	if err != nil {
		s.respondGenerateError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) respondGenerateError(c *gin.Context, err error) {
	var (
		reqErr    *lesson.RequestError
		lessonErr *pipeline.LessonError
	)
	switch {
	case errors.As(err, &reqErr):
		respondError(c, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
			Field:   reqErr.Field,
		})
	case errors.As(err, &lessonErr):
		respondError(c, http.StatusBadGateway, APIError{
			Code:           "lesson_failed",
			Message:        err.Error(),
			Section:        lessonErr.Section,
			Classification: lessonErr.Class,
			Completed:      lessonErr.Completed,
		})
	default:
		s.log.Error("lesson generation error", "error", err.Error())
		respondError(c, http.StatusInternalServerError, APIError{Code: "internal", Message: err.Error()})
	}
}

// GET /v1/runs?limit=N
func (s *Server) listRuns(c *gin.Context) {
	if s.runs == nil {
		respondError(c, http.StatusNotFound, APIError{Code: "no_store", Message: "run history is not enabled"})
		return
	}
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, APIError{Code: "invalid_limit", Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, APIError{Code: "internal", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GET /v1/runs/:lesson_id
func (s *Server) getRun(c *gin.Context) {
	if s.runs == nil {
		respondError(c, http.StatusNotFound, APIError{Code: "no_store", Message: "run history is not enabled"})
		return
	}
	run, err := s.runs.GetRun(c.Request.Context(), c.Param("lesson_id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, APIError{Code: "internal", Message: err.Error()})
		return
	}
	if run == nil {
		respondError(c, http.StatusNotFound, APIError{Code: "not_found", Message: "no run for lesson " + c.Param("lesson_id")})
		return
	}
	c.JSON(http.StatusOK, run)
}

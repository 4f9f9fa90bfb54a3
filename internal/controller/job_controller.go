package controller

import (
	"strconv"

	"minoj/internal/model"
	"minoj/internal/registry"
	"minoj/internal/service"
	"minoj/pkg/errors"
	"minoj/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// JobController handles submission and job query endpoints.
type JobController struct {
	submitService *service.SubmitService
}

// NewJobController creates a new JobController.
func NewJobController(submitService *service.SubmitService) *JobController {
	return &JobController{submitService: submitService}
}

// Create handles submission requests.
func (h *JobController) Create(c *gin.Context) {
	var req model.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}

	job, err := h.submitService.Submit(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

// List returns the jobs matching the query filter.
// Any malformed filter value rejects the whole query with 404 code 1.
func (h *JobController) List(c *gin.Context) {
	filter, bad := parseJobFilter(c)
	if bad != "" {
		response.InvalidQuery(c, "Invalid argument "+bad)
		return
	}
	response.Success(c, h.submitService.Query(c.Request.Context(), filter))
}

// Get returns one job.
func (h *JobController) Get(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(c, errors.Newf(errors.NotFound, "Job %s not found.", raw))
		return
	}
	job, err := h.submitService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

// Rejudge re-runs the judge on a stored submission.
func (h *JobController) Rejudge(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(c, errors.Newf(errors.NotFound, "Job %s not found.", raw))
		return
	}
	job, err := h.submitService.Rejudge(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

// Delete cancels a queued job. A degraded mirror turns the empty-object
// body into a bare warning string.
func (h *JobController) Delete(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(c, errors.Newf(errors.NotFound, "Job %s not found.", raw))
		return
	}
	warning, err := h.submitService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if warning != "" {
		response.Success(c, warning)
		return
	}
	response.Success(c, gin.H{})
}

// parseJobFilter reads the query predicates, returning the name of the
// first malformed field
func parseJobFilter(c *gin.Context) (registry.Filter, string) {
	var f registry.Filter

	if raw, ok := c.GetQuery("user_id"); ok {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, "user_id"
		}
		f.UserID = &v
	}
	if raw, ok := c.GetQuery("user_name"); ok {
		f.UserName = &raw
	}
	if raw, ok := c.GetQuery("contest_id"); ok {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, "contest_id"
		}
		f.ContestID = &v
	}
	if raw, ok := c.GetQuery("problem_id"); ok {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, "problem_id"
		}
		f.ProblemID = &v
	}
	if raw, ok := c.GetQuery("language"); ok {
		f.Language = &raw
	}
	if raw, ok := c.GetQuery("from"); ok {
		ts, err := model.ParseTimestamp(raw)
		if err != nil {
			return f, "from"
		}
		f.From = &ts
	}
	if raw, ok := c.GetQuery("to"); ok {
		ts, err := model.ParseTimestamp(raw)
		if err != nil {
			return f, "to"
		}
		f.To = &ts
	}
	if raw, ok := c.GetQuery("state"); ok {
		st, err := model.ParseState(raw)
		if err != nil {
			return f, "state"
		}
		f.State = &st
	}
	if raw, ok := c.GetQuery("result"); ok {
		res, err := model.ParseResult(raw)
		if err != nil {
			return f, "result"
		}
		f.Result = &res
	}
	return f, ""
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saulmartinx/wolk/internal/api/dto"
	"github.com/saulmartinx/wolk/internal/storage"
)

const (
	defaultJobsLimit = 10
	maxJobsLimit     = 100
)

// ListJobs handles GET /api/jobs
// Lists jobs, optionally filtered by exact category
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, h.logger, "Invalid query parameters", err)
		return
	}

	if req.Limit <= 0 {
		req.Limit = defaultJobsLimit
	}

	if req.Limit > maxJobsLimit {
		req.Limit = maxJobsLimit
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), storage.JobFilter{
		Category: req.Category,
		Limit:    req.Limit,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to list jobs", err)
		return
	}

	h.logger.Debug("Jobs listed",
		slog.String("category", req.Category),
		slog.Int("count", len(jobs)),
	)

	jobResponse := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		jobResponse[i] = dto.NewJobDTO(&jobs[i])
	}

	c.JSON(http.StatusOK, jobResponse)
}

// GetJob handles GET /api/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")
	c.Set(ContextKeyJobID, jobID)

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.logger, "Failed to get job", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// ListCategories handles GET /api/categories
func (h *JobHandler) ListCategories(c *gin.Context) {
	categories, err := h.jobs.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list categories", err)
		return
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: categories})
}

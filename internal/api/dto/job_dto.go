package dto

import (
	"time"

	"github.com/saulmartinx/wolk/internal/model"
)

type ListJobsRequest struct {
	Category string `form:"category"`
	Limit    int    `form:"limit"`
}

type JobDTO struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Payment        float64 `json:"payment"`
	Location       string  `json:"location"`
	Employer       string  `json:"employer"`
	EmployerRating float64 `json:"employer_rating"`
	Category       string  `json:"category"`
	ImageURL       string  `json:"image_url"`
	Deadline       string  `json:"deadline"`
	CreatedAt      string  `json:"created_at"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// NewJobDTO renders job for the API. Timestamps are reported in UTC.
func NewJobDTO(job *model.Job) JobDTO {
	return JobDTO{
		ID:             job.ID,
		Title:          job.Title,
		Description:    job.Description,
		Payment:        job.Payment.InexactFloat64(),
		Location:       job.Location,
		Employer:       job.Employer,
		EmployerRating: job.EmployerRating,
		Category:       job.Category,
		ImageURL:       job.ImageURL,
		Deadline:       job.Deadline.UTC().Format(time.DateOnly),
		CreatedAt:      job.CreatedAt.UTC().Format(time.RFC3339),
	}
}

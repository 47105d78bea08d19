package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/saulmartinx/wolk/internal/model"
	"github.com/shopspring/decimal"
)

// JobStore is the subset of the job store the seeder needs
type JobStore interface {
	CountJobs(ctx context.Context) (int, error)
	InsertJobs(ctx context.Context, jobs []model.Job) error
}

type sampleJob struct {
	title       string
	description string
	payment     string
	location    string
	employer    string
	rating      float64
	category    string
	imageURL    string
	deadline    string
	createdAt   string
}

var sampleJobs = []sampleJob{
	{
		title:       "Chop Firewood",
		description: "Need someone to chop firewood for winter. Urgently need assistance! Must be physically fit and have experience with axes.",
		payment:     "50",
		location:    "Tallinn, Estonia",
		employer:    "John Smith",
		rating:      4.8,
		category:    "Manual Labor",
		imageURL:    "https://images.unsplash.com/photo-1675134768072-d700f38ceef0",
		deadline:    "2025-03-20",
		createdAt:   "2025-03-15",
	},
	{
		title:       "Office Cleaning",
		description: "Looking for reliable cleaner for small office space. Daily cleaning required, flexible hours available.",
		payment:     "35",
		location:    "Riga, Latvia",
		employer:    "Clean Solutions Ltd",
		rating:      4.6,
		category:    "Cleaning",
		imageURL:    "https://images.unsplash.com/photo-1741543821138-471a53f147f2",
		deadline:    "2025-03-25",
		createdAt:   "2025-03-14",
	},
	{
		title:       "Website Development",
		description: "Need a simple website for my restaurant. Looking for someone with React and modern web development skills.",
		payment:     "120",
		location:    "Helsinki, Finland",
		employer:    "Maria Andersson",
		rating:      4.9,
		category:    "Technology",
		imageURL:    "https://images.unsplash.com/photo-1504384308090-c894fdcc538d",
		deadline:    "2025-03-30",
		createdAt:   "2025-03-13",
	},
	{
		title:       "Document Translation",
		description: "Need someone to translate business documents from English to Estonian. Must have professional translation experience.",
		payment:     "80",
		location:    "Tartu, Estonia",
		employer:    "Baltic Business Corp",
		rating:      4.7,
		category:    "Professional Services",
		imageURL:    "https://images.unsplash.com/photo-1562564055-71e051d33c19",
		deadline:    "2025-03-22",
		createdAt:   "2025-03-12",
	},
	{
		title:       "Marketing Consultation",
		description: "Small startup needs marketing strategy consultation. Looking for someone with digital marketing experience.",
		payment:     "95",
		location:    "Stockholm, Sweden",
		employer:    "Nordic Innovations",
		rating:      4.5,
		category:    "Consulting",
		imageURL:    "https://images.unsplash.com/photo-1517048676732-d65bc937f952",
		deadline:    "2025-03-28",
		createdAt:   "2025-03-11",
	},
}

// SampleJobs builds the built-in job postings with fresh identifiers
func SampleJobs() ([]model.Job, error) {
	jobs := make([]model.Job, 0, len(sampleJobs))
	for _, s := range sampleJobs {
		payment, err := decimal.NewFromString(s.payment)
		if err != nil {
			return nil, fmt.Errorf("invalid payment for %q: %w", s.title, err)
		}
		deadline, err := time.Parse(time.DateOnly, s.deadline)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline for %q: %w", s.title, err)
		}
		createdAt, err := time.Parse(time.DateOnly, s.createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at for %q: %w", s.title, err)
		}

		jobs = append(jobs, model.Job{
			ID:             uuid.New().String(),
			Title:          s.title,
			Description:    s.description,
			Payment:        payment,
			Location:       s.location,
			Employer:       s.employer,
			EmployerRating: s.rating,
			Category:       s.category,
			ImageURL:       s.imageURL,
			Deadline:       deadline,
			CreatedAt:      createdAt,
		})
	}
	return jobs, nil
}

// Jobs inserts the sample jobs when the store is empty.
// It returns the number of jobs inserted.
func Jobs(ctx context.Context, store JobStore, logger *slog.Logger) (int, error) {
	count, err := store.CountJobs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	if count > 0 {
		logger.Debug("Job store already populated, skipping seed",
			slog.Int("existing_jobs", count),
		)
		return 0, nil
	}

	jobs, err := SampleJobs()
	if err != nil {
		return 0, err
	}

	if err := store.InsertJobs(ctx, jobs); err != nil {
		return 0, fmt.Errorf("failed to insert sample jobs: %w", err)
	}

	logger.Info("Sample jobs inserted",
		slog.Int("count", len(jobs)),
	)

	return len(jobs), nil
}

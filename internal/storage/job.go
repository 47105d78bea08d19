package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/saulmartinx/wolk/internal/model"
)

const jobColumns = `
	id, title, description, payment, location, employer,
	employer_rating, category, image_url, deadline, created_at
`

func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}

	query += " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.Limit)

	jobs := []model.Job{}
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, storageErr("list jobs", err)
	}

	return jobs, nil
}

func (s *Storage) GetJob(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	err := s.db.GetContext(ctx, &job, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, storageErr("get job", err)
	}

	return &job, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := s.db.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM jobs ORDER BY category`)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	return categories, nil
}

func (s *Storage) CountJobs(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM jobs`); err != nil {
		return 0, storageErr("count jobs", err)
	}
	return count, nil
}

// InsertJobs bulk inserts jobs in a single statement
func (s *Storage) InsertJobs(ctx context.Context, jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	query := `
		INSERT INTO jobs (
			id, title, description, payment, location, employer,
			employer_rating, category, image_url, deadline, created_at
		) VALUES (
			:id, :title, :description, :payment, :location, :employer,
			:employer_rating, :category, :image_url, :deadline, :created_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, jobs); err != nil {
		return storageErr("insert jobs", err)
	}

	return nil
}

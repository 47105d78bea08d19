package storage

import (
	"context"

	"github.com/saulmartinx/wolk/internal/model"
)

func (s *Storage) CreateSwipe(ctx context.Context, swipe *model.Swipe) error {
	query := `
		INSERT INTO swipes (id, job_id, user_id, action, created_at)
		VALUES (:id, :job_id, :user_id, :action, :created_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, swipe); err != nil {
		return storageErr("create swipe", err)
	}

	return nil
}

package storage

import (
	"context"
	"log/slog"

	"github.com/saulmartinx/wolk/internal/model"
)

// UpsertUser inserts a linked user or refreshes its credentials and last_seen_at
func (s *Storage) UpsertUser(ctx context.Context, user *model.LinkedUser) error {
	query := `
		INSERT INTO users (uid, username, access_token, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (uid) DO UPDATE
		SET username = EXCLUDED.username,
		    access_token = EXCLUDED.access_token,
		    last_seen_at = EXCLUDED.last_seen_at
	`

	_, err := s.db.ExecContext(ctx, query, user.UID, user.Username, user.AccessToken, user.LastSeenAt)
	if err != nil {
		return storageErr("upsert user", err)
	}

	s.logger.Debug("Linked user upserted",
		slog.String("uid", user.UID),
	)

	return nil
}

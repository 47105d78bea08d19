package storage

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schema string

// Schema returns the DDL applied by Migrate
func Schema() string {
	return schema
}

// Migrate creates the tables and indexes if they do not exist yet
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return storageErr("apply schema", err)
	}

	s.logger.Info("Database schema applied")
	return nil
}

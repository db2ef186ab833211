package catalog

import (
	"context"
	"log/slog"

	"github.com/brightpath/progress-api/internal/store"
)

// PostgresCatalog implements Catalog against the lessons and cards tables
// maintained by the content-authoring side of the system.
type PostgresCatalog struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCatalog creates a catalog backed by the shared database.
// If logger is nil, a default logger will be used.
func NewPostgresCatalog(db store.DBTX, logger *slog.Logger) *PostgresCatalog {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCatalog{
		db:     db,
		logger: logger.With(slog.String("component", "catalog")),
	}
}

// Ensure PostgresCatalog implements Catalog
var _ Catalog = (*PostgresCatalog)(nil)

// TotalLessons implements Catalog.TotalLessons.
func (c *PostgresCatalog) TotalLessons(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM lessons WHERE published`,
	).Scan(&count)
	if err != nil {
		c.logger.Error("failed to count published lessons", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// LessonExists implements Catalog.LessonExists.
func (c *PostgresCatalog) LessonExists(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := c.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM lessons WHERE id = $1 AND published)`,
		itemID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// CardExists implements Catalog.CardExists.
func (c *PostgresCatalog) CardExists(ctx context.Context, cardID string) (bool, error) {
	var exists bool
	err := c.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM cards WHERE id = $1 AND published)`,
		cardID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

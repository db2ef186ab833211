package catalog

import "context"

// StaticCatalog is a fixed in-memory Catalog used in tests and local
// development.
type StaticCatalog struct {
	Lessons []string
	Cards   []string
}

// Ensure StaticCatalog implements Catalog
var _ Catalog = (*StaticCatalog)(nil)

// TotalLessons implements Catalog.TotalLessons.
func (c *StaticCatalog) TotalLessons(_ context.Context) (int, error) {
	return len(c.Lessons), nil
}

// LessonExists implements Catalog.LessonExists.
func (c *StaticCatalog) LessonExists(_ context.Context, itemID string) (bool, error) {
	for _, id := range c.Lessons {
		if id == itemID {
			return true, nil
		}
	}
	return false, nil
}

// CardExists implements Catalog.CardExists.
func (c *StaticCatalog) CardExists(_ context.Context, cardID string) (bool, error) {
	for _, id := range c.Cards {
		if id == cardID {
			return true, nil
		}
	}
	return false, nil
}

package catalog

import "github.com/nexus/backend/internal/domain/shared"

// Category groups products. Categories form a tree through ParentID.
type Category struct {
	shared.BaseEntity
	Name     string `json:"name" validate:"min=2"`
	ParentID string `json:"parentId,omitempty"`
}

// NewCategory returns a category in its initial state
func NewCategory() Category {
	return Category{}
}

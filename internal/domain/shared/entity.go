package shared

import (
	"time"
)

// Entity is the base interface for every persisted record
type Entity interface {
	GetID() string
	SetID(id string)
	Stamp(now time.Time)
	Touch(now time.Time)
}

// EntityPtr constrains generic code to pointer receivers of T that
// implement Entity, so a zero T can be allocated and then mutated.
type EntityPtr[T any] interface {
	*T
	Entity
}

// CreatorTracked is implemented by records that remember who created them
type CreatorTracked interface {
	TrackCreate(actor string)
}

// UpdaterTracked is implemented by records that remember who last changed them
type UpdaterTracked interface {
	TrackUpdate(actor string)
}

// Child is a line item that belongs to a header record through a foreign key
type Child interface {
	Entity
	GetParentID() string
	SetParentID(id string)
}

// ChildPtr is the pointer constraint for Child types
type ChildPtr[T any] interface {
	*T
	Child
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        string    `json:"id"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() string {
	return e.ID
}

// SetID sets the entity ID
func (e *BaseEntity) SetID(id string) {
	e.ID = id
}

// Stamp sets both timestamps, used on creation
func (e *BaseEntity) Stamp(now time.Time) {
	e.CreatedAt = NewTimestamp(now)
	e.UpdatedAt = NewTimestamp(now)
}

// Touch bumps the update timestamp
func (e *BaseEntity) Touch(now time.Time) {
	e.UpdatedAt = NewTimestamp(now)
}

// NewBaseEntity creates a base entity with the given id, stamped at now
func NewBaseEntity(id string, now time.Time) BaseEntity {
	return BaseEntity{
		ID:        id,
		CreatedAt: NewTimestamp(now),
		UpdatedAt: NewTimestamp(now),
	}
}

// UserTracked carries the creator and last updater of a record
type UserTracked struct {
	CreatedBy string `json:"createdBy"`
	UpdatedBy string `json:"updatedBy"`
}

// TrackCreate records actor as creator and updater
func (u *UserTracked) TrackCreate(actor string) {
	u.CreatedBy = actor
	u.UpdatedBy = actor
}

// TrackUpdate records actor as last updater
func (u *UserTracked) TrackUpdate(actor string) {
	u.UpdatedBy = actor
}

// NewUserTracked returns tracking fields attributed to actor
func NewUserTracked(actor string) UserTracked {
	return UserTracked{CreatedBy: actor, UpdatedBy: actor}
}

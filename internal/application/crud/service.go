// Package crud provides the generic create/read/update/delete service used
// by every plain resource.
package crud

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nexus/backend/internal/domain/shared"
)

// Validator checks a merged entity before it is written. A nil Validator
// accepts everything.
type Validator interface {
	Validate(v any) error
}

// Option configures a Service
type Option func(*Settings)

// Settings are the collaborators shared by the resource services
type Settings struct {
	Validator Validator
	Now       func() time.Time
	NewID     func() string
}

// WithValidator enables payload validation after merge
func WithValidator(v Validator) Option {
	return func(s *Settings) {
		s.Validator = v
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Settings) {
		s.Now = now
	}
}

// WithIDGenerator overrides id generation
func WithIDGenerator(newID func() string) Option {
	return func(s *Settings) {
		s.NewID = newID
	}
}

// NewSettings applies opts over the defaults: the UTC wall clock, random
// UUIDs and no validation.
func NewSettings(opts ...Option) Settings {
	s := Settings{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Service implements the uniform resource operations over an entity repository
type Service[T any, P shared.EntityPtr[T]] struct {
	repo     shared.EntityRepository[T]
	settings Settings
	onCreate func(entity *T, now time.Time)
}

// NewService creates a new Service
func NewService[T any, P shared.EntityPtr[T]](repo shared.EntityRepository[T], opts ...Option) *Service[T, P] {
	return &Service[T, P]{repo: repo, settings: NewSettings(opts...)}
}

// OnCreate registers a hook run on new records after stamping
func (s *Service[T, P]) OnCreate(fn func(entity *T, now time.Time)) *Service[T, P] {
	s.onCreate = fn
	return s
}

// List returns every record of the type
func (s *Service[T, P]) List(ctx context.Context) (shared.Page[T], error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return shared.Page[T]{}, err
	}
	return shared.NewPage(items), nil
}

// Get returns one record
func (s *Service[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.Get(ctx, id)
}

// Create merges body over the default state, assigns a fresh id and
// timestamps and stores the record.
func (s *Service[T, P]) Create(ctx context.Context, actor string, body []byte) (*T, error) {
	entity := s.repo.New()
	if err := Merge(entity, body); err != nil {
		return nil, err
	}
	now := s.settings.Now()
	Prepare[T, P](entity, s.settings.NewID(), actor, now)
	if s.onCreate != nil {
		s.onCreate(entity, now)
	}
	if err := s.validate(entity); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Update merges body over the stored record. The id is kept, updatedAt is
// bumped and the record is attributed to actor when it tracks updaters.
func (s *Service[T, P]) Update(ctx context.Context, actor, id string, body []byte) (*T, error) {
	return s.repo.Mutate(ctx, id, func(current *T) error {
		if err := Merge(current, body); err != nil {
			return err
		}
		Revise[T, P](current, actor, s.settings.Now())
		return s.validate(current)
	})
}

// Delete removes the record; a missing id reports deleted=false
func (s *Service[T, P]) Delete(ctx context.Context, id string) (shared.DeleteResult, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return shared.DeleteResult{}, err
	}
	return shared.DeleteResult{ID: id, Deleted: deleted}, nil
}

func (s *Service[T, P]) validate(entity *T) error {
	return s.settings.Validate(entity)
}

// Validate runs the configured validator, if any
func (s Settings) Validate(v any) error {
	if s.Validator == nil {
		return nil
	}
	return s.Validator.Validate(v)
}

// Merge shallowly overwrites entity with the fields present in body.
// An empty body leaves entity untouched.
func Merge(entity any, body []byte) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, entity); err != nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid request body: "+err.Error())
	}
	return nil
}

// Prepare sets the identity, timestamps and creator of a new record
func Prepare[T any, P shared.EntityPtr[T]](entity *T, id, actor string, now time.Time) {
	p := P(entity)
	p.SetID(id)
	p.Stamp(now)
	if tracked, ok := any(entity).(shared.CreatorTracked); ok {
		tracked.TrackCreate(actor)
	}
}

// Revise bumps the update timestamp and records the updater
func Revise[T any, P shared.EntityPtr[T]](entity *T, actor string, now time.Time) {
	P(entity).Touch(now)
	if tracked, ok := any(entity).(shared.UpdaterTracked); ok {
		tracked.TrackUpdate(actor)
	}
}

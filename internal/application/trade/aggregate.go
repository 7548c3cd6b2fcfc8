// Package trade orchestrates the composite header-plus-lines writes behind
// sales and supplier orders.
package trade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nexus/backend/internal/application/crud"
	"github.com/nexus/backend/internal/domain/shared"
	domaintrade "github.com/nexus/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Aggregate is a header together with its line items
type Aggregate[H any, C any] struct {
	Header *H
	Items  []C
}

// AggregateService writes a header record and its child line items.
// Writes are sequential and never rolled back: when an item write fails the
// records already written stay persisted and the error is returned.
type AggregateService[H any, HP shared.EntityPtr[H], C any, CP shared.ChildPtr[C]] struct {
	headers  shared.EntityRepository[H]
	items    shared.EntityRepository[C]
	settings crud.Settings
	logger   *zap.Logger
}

// NewAggregateService creates a new AggregateService
func NewAggregateService[H any, HP shared.EntityPtr[H], C any, CP shared.ChildPtr[C]](
	headers shared.EntityRepository[H],
	items shared.EntityRepository[C],
	logger *zap.Logger,
	opts ...crud.Option,
) *AggregateService[H, HP, C, CP] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AggregateService[H, HP, C, CP]{
		headers:  headers,
		items:    items,
		settings: crud.NewSettings(opts...),
		logger:   logger,
	}
}

// SaleService writes sales with their sale items
type SaleService = AggregateService[domaintrade.Sale, *domaintrade.Sale, domaintrade.SaleItem, *domaintrade.SaleItem]

// SupplierOrderService writes supplier orders with their order items
type SupplierOrderService = AggregateService[domaintrade.SupplierOrder, *domaintrade.SupplierOrder, domaintrade.SupplierOrderItem, *domaintrade.SupplierOrderItem]

// NewSaleService creates the sale aggregate service
func NewSaleService(sales shared.EntityRepository[domaintrade.Sale], items shared.EntityRepository[domaintrade.SaleItem], logger *zap.Logger, opts ...crud.Option) *SaleService {
	return NewAggregateService[domaintrade.Sale, *domaintrade.Sale, domaintrade.SaleItem, *domaintrade.SaleItem](sales, items, logger, opts...)
}

// NewSupplierOrderService creates the supplier order aggregate service
func NewSupplierOrderService(orders shared.EntityRepository[domaintrade.SupplierOrder], items shared.EntityRepository[domaintrade.SupplierOrderItem], logger *zap.Logger, opts ...crud.Option) *SupplierOrderService {
	return NewAggregateService[domaintrade.SupplierOrder, *domaintrade.SupplierOrder, domaintrade.SupplierOrderItem, *domaintrade.SupplierOrderItem](orders, items, logger, opts...)
}

// List returns every header
func (s *AggregateService[H, HP, C, CP]) List(ctx context.Context) (shared.Page[H], error) {
	headers, err := s.headers.List(ctx)
	if err != nil {
		return shared.Page[H]{}, err
	}
	return shared.NewPage(headers), nil
}

// Get returns one header without its items
func (s *AggregateService[H, HP, C, CP]) Get(ctx context.Context, id string) (*H, error) {
	return s.headers.Get(ctx, id)
}

// Items returns the line items whose foreign key is id, in index order.
// An unknown id yields an empty page.
func (s *AggregateService[H, HP, C, CP]) Items(ctx context.Context, id string) (shared.Page[C], error) {
	children, err := s.children(ctx, id)
	if err != nil {
		return shared.Page[C]{}, err
	}
	return shared.NewPage(children), nil
}

// Create inserts the header, then each item in input order pointing at it
func (s *AggregateService[H, HP, C, CP]) Create(ctx context.Context, actor string, header json.RawMessage, items []json.RawMessage) (*Aggregate[H, C], error) {
	entity := s.headers.New()
	if err := crud.Merge(entity, header); err != nil {
		return nil, err
	}
	now := s.settings.Now()
	crud.Prepare[H, HP](entity, s.settings.NewID(), actor, now)

	lines, err := s.decodeItems(items)
	if err != nil {
		return nil, err
	}
	if err := s.validate(entity, lines); err != nil {
		return nil, err
	}

	if err := s.headers.Create(ctx, entity); err != nil {
		return nil, err
	}
	written, err := s.insertItems(ctx, HP(entity).GetID(), lines)
	return &Aggregate[H, C]{Header: entity, Items: written}, err
}

// Update merges header over the stored one, removes every item referencing
// it and inserts items as the complete new set.
func (s *AggregateService[H, HP, C, CP]) Update(ctx context.Context, actor, id string, header json.RawMessage, items []json.RawMessage) (*Aggregate[H, C], error) {
	lines, err := s.decodeItems(items)
	if err != nil {
		return nil, err
	}

	updated, err := s.headers.Mutate(ctx, id, func(current *H) error {
		if err := crud.Merge(current, header); err != nil {
			return err
		}
		crud.Revise[H, HP](current, actor, s.settings.Now())
		return s.validate(current, lines)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.removeItems(ctx, id); err != nil {
		return &Aggregate[H, C]{Header: updated}, err
	}
	written, err := s.insertItems(ctx, id, lines)
	return &Aggregate[H, C]{Header: updated, Items: written}, err
}

// Delete removes the items first, then the header
func (s *AggregateService[H, HP, C, CP]) Delete(ctx context.Context, id string) (shared.DeleteResult, error) {
	removed, err := s.removeItems(ctx, id)
	if err != nil {
		return shared.DeleteResult{}, err
	}
	deleted, err := s.headers.Delete(ctx, id)
	if err != nil {
		return shared.DeleteResult{}, err
	}
	s.logger.Debug("Deleted aggregate",
		zap.String("type", s.headers.Name()),
		zap.String("id", id),
		zap.Int("items", removed),
		zap.Bool("deleted", deleted),
	)
	return shared.DeleteResult{ID: id, Deleted: deleted}, nil
}

func (s *AggregateService[H, HP, C, CP]) decodeItems(items []json.RawMessage) ([]*C, error) {
	lines := make([]*C, 0, len(items))
	for i, raw := range items {
		line := s.items.New()
		if err := crud.Merge(line, raw); err != nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("item %d: %s", i, err.Error()))
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// validate checks the header and every line before anything is written
func (s *AggregateService[H, HP, C, CP]) validate(header *H, lines []*C) error {
	if s.settings.Validator == nil {
		return nil
	}
	if err := s.settings.Validate(header); err != nil {
		return err
	}
	if len(lines) == 0 {
		return shared.ValidationError("at least one item is required")
	}
	for i, line := range lines {
		if err := s.settings.Validate(line); err != nil {
			return shared.ValidationError(fmt.Sprintf("item %d: %s", i, err.Error()))
		}
	}
	return nil
}

func (s *AggregateService[H, HP, C, CP]) insertItems(ctx context.Context, parentID string, lines []*C) ([]C, error) {
	written := make([]C, 0, len(lines))
	for i, line := range lines {
		crud.Prepare[C, CP](line, s.settings.NewID(), "", s.settings.Now())
		CP(line).SetParentID(parentID)
		if err := s.items.Create(ctx, line); err != nil {
			s.logger.Warn("Aggregate partially written",
				zap.String("type", s.headers.Name()),
				zap.String("id", parentID),
				zap.Int("written_items", i),
				zap.Int("expected_items", len(lines)),
				zap.Error(err),
			)
			return written, fmt.Errorf("failed to write item %d of %s %s: %w", i, s.headers.Name(), parentID, err)
		}
		written = append(written, *line)
	}
	return written, nil
}

func (s *AggregateService[H, HP, C, CP]) children(ctx context.Context, parentID string) ([]C, error) {
	all, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}
	children := make([]C, 0)
	for i := range all {
		if CP(&all[i]).GetParentID() == parentID {
			children = append(children, all[i])
		}
	}
	return children, nil
}

func (s *AggregateService[H, HP, C, CP]) removeItems(ctx context.Context, parentID string) (int, error) {
	children, err := s.children(ctx, parentID)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(children))
	for i := range children {
		ids = append(ids, CP(&children[i]).GetID())
	}
	return s.items.DeleteMany(ctx, ids)
}

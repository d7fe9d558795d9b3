// Package services composes the REST clients, the session and the event
// publisher into the operations the CLI exposes.
package services

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"bookkeeping/internal/amqp"
	"bookkeeping/internal/api"
	"bookkeeping/internal/cache"
	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
	"bookkeeping/internal/session"
)

// LedgerService manages the categories and records of the session user.
type LedgerService struct {
	api        *api.Client
	session    *session.Store
	categories *cache.LRUCache[[]core.Category]
	publisher  amqp.Publisher
	logger     *log.Logger
}

// NewLedgerService wires the service. categories and publisher may be nil.
func NewLedgerService(client *api.Client, sess *session.Store, categories *cache.LRUCache[[]core.Category], publisher amqp.Publisher, logger *log.Logger) *LedgerService {
	return &LedgerService{
		api:        client,
		session:    sess,
		categories: categories,
		publisher:  publisher,
		logger:     log.OrDefault(logger).WithComponent(log.ComponentLedger),
	}
}

// Categories lists the user's categories, served from cache when fresh.
func (s *LedgerService) Categories(ctx context.Context) ([]core.Category, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return nil, err
	}
	load := func(ctx context.Context) ([]core.Category, error) {
		resp, err := s.api.Categories.List(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return api.Decode[[]core.Category](resp)
	}
	if s.categories == nil {
		return load(ctx)
	}
	return s.categories.GetOrLoad(ctx, cacheKey(user.ID), load)
}

// AddCategory creates a category owned by the session user.
func (s *LedgerService) AddCategory(ctx context.Context, name string, typ core.Polarity, icon string) (core.Category, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return core.Category{}, err
	}
	in := core.CategoryInput{Name: &name, Type: &typ, UserID: &user.ID}
	if icon != "" {
		in.Icon = &icon
	}

	resp, err := s.api.Categories.Create(ctx, in)
	if err != nil {
		return core.Category{}, err
	}
	created, err := api.Decode[core.Category](resp)
	if err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}
	s.invalidate(user.ID)

	s.logger.InfoContext(ctx, "Category created", log.FieldOperation, log.OpCreate, log.FieldCategoryID, created.ID)
	return created, nil
}

// RemoveCategory deletes a category.
func (s *LedgerService) RemoveCategory(ctx context.Context, id int64) error {
	user, err := s.session.RequireUser()
	if err != nil {
		return err
	}
	resp, err := s.api.Categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := api.Check(resp); err != nil {
		return fmt.Errorf("remove category %d: %w", id, err)
	}
	s.invalidate(user.ID)
	return nil
}

// Records lists the user's records dated within [start, end].
func (s *LedgerService) Records(ctx context.Context, start, end core.Date) ([]core.Record, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return nil, err
	}
	resp, err := s.api.Records.List(ctx, user.ID, start, end)
	if err != nil {
		return nil, err
	}
	return api.Decode[[]core.Record](resp)
}

// AddRecord creates a record for the session user. A missing type is taken
// from the category; a type that contradicts a known category is rejected.
func (s *LedgerService) AddRecord(ctx context.Context, in core.RecordInput) (core.Record, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return core.Record{}, err
	}
	in.UserID = &user.ID
	if in.Amount == nil {
		return core.Record{}, fmt.Errorf("add record: amount: %w", core.ErrInvalidAmount)
	}
	if in.RecordDate == nil {
		return core.Record{}, fmt.Errorf("add record: date: %w", core.ErrInvalidDate)
	}
	if err := s.reconcilePolarity(ctx, &in); err != nil {
		return core.Record{}, fmt.Errorf("add record: %w", err)
	}
	if in.Type == nil {
		return core.Record{}, fmt.Errorf("add record: type: %w", core.ErrInvalidPolarity)
	}

	resp, err := s.api.Records.Create(ctx, in)
	if err != nil {
		return core.Record{}, err
	}
	created, err := api.Decode[core.Record](resp)
	if err != nil {
		return core.Record{}, fmt.Errorf("add record: %w", err)
	}

	s.publish(ctx, amqp.NewRecordEvent(amqp.OpCreated, created))
	return created, nil
}

// UpdateRecord replaces the record with the fields set in in.
func (s *LedgerService) UpdateRecord(ctx context.Context, id int64, in core.RecordInput) (core.Record, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return core.Record{}, err
	}
	in.UserID = &user.ID
	if err := s.reconcilePolarity(ctx, &in); err != nil {
		return core.Record{}, fmt.Errorf("update record %d: %w", id, err)
	}

	resp, err := s.api.Records.Update(ctx, id, in)
	if err != nil {
		return core.Record{}, err
	}
	updated, err := api.Decode[core.Record](resp)
	if err != nil {
		return core.Record{}, fmt.Errorf("update record %d: %w", id, err)
	}
	if updated.ID == 0 {
		updated.ID = id
	}

	s.publish(ctx, amqp.NewRecordEvent(amqp.OpUpdated, updated))
	return updated, nil
}

// RemoveRecord deletes a record.
func (s *LedgerService) RemoveRecord(ctx context.Context, id int64) error {
	user, err := s.session.RequireUser()
	if err != nil {
		return err
	}
	resp, err := s.api.Records.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := api.Check(resp); err != nil {
		return fmt.Errorf("remove record %d: %w", id, err)
	}

	s.publish(ctx, amqp.NewDeleteEvent(id, user.ID))
	return nil
}

// Dashboard is the data behind the dashboard view.
type Dashboard struct {
	Categories []core.Category
	Records    []core.Record
	Summary    core.Summary
}

// Dashboard fetches categories and records concurrently and summarizes them.
func (s *LedgerService) Dashboard(ctx context.Context, start, end core.Date) (Dashboard, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return Dashboard{}, err
	}
	if err := core.ValidateRange(start, end); err != nil {
		return Dashboard{}, err
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := s.Categories(gctx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		d.Categories = cats
		return nil
	})
	g.Go(func() error {
		recs, err := s.Records(gctx, start, end)
		if err != nil {
			return fmt.Errorf("records: %w", err)
		}
		d.Records = recs
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	attachCategories(d.Records, d.Categories)
	d.Summary = core.Summarize(start, end, d.Records)

	s.logger.DebugContext(ctx, "Dashboard loaded",
		log.NewFields().WithOperation(log.OpRead).WithRange(start.String(), end.String()).ToSlice()...)
	return d, nil
}

// reconcilePolarity defaults the type from the referenced category and
// rejects a mismatch. Categories that cannot be loaded are not checked.
func (s *LedgerService) reconcilePolarity(ctx context.Context, in *core.RecordInput) error {
	if in.CategoryID == nil {
		return nil
	}
	cats, err := s.Categories(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Skipping category check", log.FieldError, err)
		return nil
	}
	var cat *core.Category
	for i := range cats {
		if cats[i].ID == *in.CategoryID {
			cat = &cats[i]
			break
		}
	}
	if cat == nil {
		return nil
	}
	if in.Type == nil {
		t := cat.Type
		in.Type = &t
		return nil
	}
	return core.CheckPolarity(*in.Type, cat)
}

func (s *LedgerService) publish(ctx context.Context, e amqp.RecordEvent) {
	if s.publisher == nil {
		return
	}
	// The change is already stored remotely; a lost event is logged only.
	if err := s.publisher.PublishRecordEvent(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish record event",
			"op", e.Op, log.FieldRecordID, e.RecordID, log.FieldError, err)
	}
}

func (s *LedgerService) invalidate(userID int64) {
	if s.categories != nil {
		s.categories.Delete(cacheKey(userID))
	}
}

func attachCategories(records []core.Record, categories []core.Category) {
	byID := make(map[int64]*core.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	for i := range records {
		r := &records[i]
		if r.Category != nil || r.CategoryID == nil {
			continue
		}
		if c, ok := byID[*r.CategoryID]; ok {
			cp := *c
			r.Category = &cp
		}
	}
}

func cacheKey(userID int64) string {
	return "categories:" + strconv.FormatInt(userID, 10)
}

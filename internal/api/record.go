package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"bookkeeping/internal/core"
)

// RecordAPI covers /records.
type RecordAPI struct {
	c *Client
}

// List fetches the records of userID dated within [start, end], inclusive.
func (a *RecordAPI) List(ctx context.Context, userID int64, start, end core.Date) (*Response, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("list records: user: %w", core.ErrInvalidID)
	}
	if err := core.ValidateRange(start, end); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return a.c.Do(ctx, http.MethodGet, "/records", []Param{
		{Key: "userId", Value: strconv.FormatInt(userID, 10)},
		{Key: "startDate", Value: start.String()},
		{Key: "endDate", Value: end.String()},
	}, nil)
}

// Create posts a partial record.
func (a *RecordAPI) Create(ctx context.Context, in core.RecordInput) (*Response, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	return a.c.Do(ctx, http.MethodPost, "/records", nil, in)
}

// Update replaces the record with the given id using the fields set in in.
func (a *RecordAPI) Update(ctx context.Context, id int64, in core.RecordInput) (*Response, error) {
	if id <= 0 {
		return nil, fmt.Errorf("update record: %w", core.ErrInvalidID)
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return a.c.Do(ctx, http.MethodPut, "/records/"+strconv.FormatInt(id, 10), nil, in)
}

// Delete removes the record with the given id.
func (a *RecordAPI) Delete(ctx context.Context, id int64) (*Response, error) {
	if id <= 0 {
		return nil, fmt.Errorf("delete record: %w", core.ErrInvalidID)
	}
	return a.c.Do(ctx, http.MethodDelete, "/records/"+strconv.FormatInt(id, 10), nil, nil)
}

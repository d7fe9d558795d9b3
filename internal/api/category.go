package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"bookkeeping/internal/core"
)

// CategoryAPI covers /categories.
type CategoryAPI struct {
	c *Client
}

// List fetches the categories owned by userID.
func (a *CategoryAPI) List(ctx context.Context, userID int64) (*Response, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("list categories: user: %w", core.ErrInvalidID)
	}
	return a.c.Do(ctx, http.MethodGet, "/categories",
		[]Param{{Key: "userId", Value: strconv.FormatInt(userID, 10)}}, nil)
}

// Create posts a partial category.
func (a *CategoryAPI) Create(ctx context.Context, in core.CategoryInput) (*Response, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return a.c.Do(ctx, http.MethodPost, "/categories", nil, in)
}

// Delete removes the category with the given id.
func (a *CategoryAPI) Delete(ctx context.Context, id int64) (*Response, error) {
	if id <= 0 {
		return nil, fmt.Errorf("delete category: %w", core.ErrInvalidID)
	}
	return a.c.Do(ctx, http.MethodDelete, "/categories/"+strconv.FormatInt(id, 10), nil, nil)
}

// Package storage provides the durable key/value store that backs client
// state such as the logged-in session.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage closed")

// LocalStorage is a string key/value store. A missing key is not an error:
// GetItem reports it with ok=false.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Close() error
}

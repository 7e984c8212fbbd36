// Package session keeps the pagination state of each browser view between
// requests. State lives only as long as the view's TTL; it is never used as
// a cache of fetched results across views.
package session

import (
	"context"
	"errors"

	"moviebrowse/internal/pagination"
)

// CookieName carries the view id.
const CookieName = "mb_view"

var ErrConflict = errors.New("view was modified concurrently")

// Store restores the controller of viewID (a fresh one if the view is
// unknown or expired), runs fn against it and saves the result. Renderer r
// is attached to the restored controller and may be nil.
type Store interface {
	Update(ctx context.Context, viewID string, r pagination.Renderer, fn func(*pagination.Controller) error) error
	Close() error
}

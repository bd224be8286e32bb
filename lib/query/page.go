package query

import (
	"context"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Per-page bounds for list calls.
const (
	MinPerPage     = 1
	MaxPerPage     = 100
	DefaultPerPage = 20
)

// ClampPerPage forces perPage into [MinPerPage, MaxPerPage], substituting
// the default for zero.
func ClampPerPage(perPage int) int {
	if perPage == 0 {
		return DefaultPerPage
	}

	if perPage < MinPerPage {
		return MinPerPage
	}

	if perPage > MaxPerPage {
		return MaxPerPage
	}

	return perPage
}

// SinglePage issues exactly one list call at page 1 with a clamped page
// size. Deliberately not multi-page: callers wanting more manage
// pagination themselves.
func SinglePage[T any, O any](ctx context.Context, getter func(opts *O, options ...gitlab.RequestOptionFunc) ([]T, *gitlab.Response, error), opts O, setPage func(*O, gitlab.ListOptions)) ([]T, error) {
	return singlePage(ctx, getter, opts, setPage, 0)
}

// SinglePageN is SinglePage with an explicit page size.
func SinglePageN[T any, O any](ctx context.Context, perPage int, getter func(opts *O, options ...gitlab.RequestOptionFunc) ([]T, *gitlab.Response, error), opts O, setPage func(*O, gitlab.ListOptions)) ([]T, error) {
	return singlePage(ctx, getter, opts, setPage, perPage)
}

// SinglePageWithID adapts getters that take a leading object ID, such as
// most project-scoped list calls.
func SinglePageWithID[T any, O any](ctx context.Context, id any, perPage int, getter func(id any, opts *O, options ...gitlab.RequestOptionFunc) ([]T, *gitlab.Response, error), opts O, setPage func(*O, gitlab.ListOptions)) ([]T, error) {
	wrapped := func(opts *O, options ...gitlab.RequestOptionFunc) ([]T, *gitlab.Response, error) {
		return getter(id, opts, options...)
	}

	return singlePage(ctx, wrapped, opts, setPage, perPage)
}

func singlePage[T any, O any](ctx context.Context, getter func(opts *O, options ...gitlab.RequestOptionFunc) ([]T, *gitlab.Response, error), opts O, setPage func(*O, gitlab.ListOptions), perPage int) ([]T, error) {
	setPage(&opts, gitlab.ListOptions{Page: 1, PerPage: ClampPerPage(perPage)})

	items, _, err := getter(&opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	return items, nil
}

package query

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
)

// Run executes a paginated pipeline and returns the page with its exact total.
func Run[T any](ctx context.Context, db sqlx.QueryerContext, p Pipeline) (*model.Page[T], error) {
	stmt, err := Compile(p)
	if err != nil {
		return nil, err
	}
	if stmt.Page == nil {
		return nil, ErrNotPaginated
	}

	items := make([]T, 0, stmt.Page.Limit)
	if err := sqlx.SelectContext(ctx, db, &items, stmt.SQL, stmt.Args...); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", p.From, err)
	}

	var total int64
	if err := sqlx.GetContext(ctx, db, &total, stmt.CountSQL, stmt.CountArgs...); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", p.From, err)
	}

	return &model.Page[T]{
		Items:      items,
		Page:       stmt.Page.Page,
		Limit:      stmt.Page.Limit,
		TotalCount: total,
		TotalPages: TotalPages(total, stmt.Page.Limit),
	}, nil
}

// All executes an unpaginated pipeline.
func All[T any](ctx context.Context, db sqlx.QueryerContext, p Pipeline) ([]T, error) {
	stmt, err := Compile(p)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if err := sqlx.SelectContext(ctx, db, &items, stmt.SQL, stmt.Args...); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", p.From, err)
	}
	return items, nil
}

// One executes a pipeline expected to match a single row. It returns
// sql.ErrNoRows (unwrapped through %w) when nothing matches.
func One[T any](ctx context.Context, db sqlx.QueryerContext, p Pipeline) (*T, error) {
	stmt, err := Compile(p)
	if err != nil {
		return nil, err
	}
	var item T
	if err := sqlx.GetContext(ctx, db, &item, stmt.SQL, stmt.Args...); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", p.From, err)
	}
	return &item, nil
}

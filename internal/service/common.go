package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"vidtube/internal/logging"
	"vidtube/internal/model"
	"vidtube/internal/query"
)

// StatsInvalidator drops cached channel aggregates. cache.StatsCache satisfies it.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, channelID int64) error
}

func invalidateStats(ctx context.Context, stats StatsInvalidator, channelID int64) {
	if stats == nil {
		return
	}
	if err := stats.Invalidate(ctx, channelID); err != nil {
		logging.Component(ctx, "stats_cache").WithError(err).WithField("channel", channelID).Warn("invalidate failed")
	}
}

// viewerID is nil for anonymous callers.
func viewerID(viewer *model.User) *int64 {
	if viewer == nil {
		return nil
	}
	id := viewer.ID
	return &id
}

func isOwner(viewer *model.User, ownerID int64) bool {
	return viewer != nil && viewer.ID == ownerID
}

// parseList validates page and sort parameters before any store call.
func parseList(p model.ListParams, allowed query.SortFields, defaultSort string) (query.Sort, query.Paginate, error) {
	page, err := query.ParsePage(p.Page, p.Limit)
	if err != nil {
		return query.Sort{}, query.Paginate{}, err
	}
	sort, err := query.ParseSort(p.SortBy, p.SortType, allowed, defaultSort)
	if err != nil {
		return query.Sort{}, query.Paginate{}, err
	}
	return sort, page, nil
}

// cleanText trims s and enforces a non-empty value of at most maxLen runes.
func cleanText(s string, maxLen int, required, tooLong error) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", required
	}
	if utf8.RuneCountInString(s) > maxLen {
		return "", tooLong
	}
	return s, nil
}

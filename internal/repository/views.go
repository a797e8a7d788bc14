package repository

import (
	"vidtube/internal/query"
)

// Public sort names accepted by listing endpoints, mapped to columns.
var (
	VideoSortFields = query.SortFields{
		"createdAt": "v.created_at",
		"views":     "v.views",
		"title":     "v.title",
	}
	CommentSortFields = query.SortFields{
		"createdAt": "c.created_at",
		"content":   "c.content",
	}
)

var videoFields = []string{
	"id", "owner_id", "title", "description", "video_url", "video_key",
	"thumbnail_url", "thumbnail_key", "views", "is_published", "duration",
	"created_at", "updated_at",
}

var summaryFields = []string{"id", "username", "full_name", "avatar_url"}

// ownerOf joins the owning user of alias.owner_id as a nested "owner" profile.
func ownerOf(alias string) query.Lookup {
	return query.Lookup{
		Table:        "users",
		As:           "owner",
		LocalField:   alias + ".owner_id",
		ForeignField: "id",
		Fields:       summaryFields,
	}
}

// flatVideo joins videos as v with its columns flattened into the row.
func flatVideo(localField string) query.Lookup {
	return query.Lookup{
		Table:        "videos",
		As:           "v",
		LocalField:   localField,
		ForeignField: "id",
		Fields:       videoFields,
		Flatten:      true,
	}
}

// visibleTo keeps published videos, plus the viewer's own unpublished ones.
// It expects the videos alias v.
func visibleTo(viewer *int64) query.Cond {
	published := query.Eq{Field: "v.is_published", Value: true}
	if viewer == nil {
		return published
	}
	return query.Or{Conds: []query.Cond{published, query.Eq{Field: "v.owner_id", Value: *viewer}}}
}

func likesCount(target, local string) query.Count {
	return query.Count{As: "likes_count", Table: "likes", ForeignField: target, LocalField: local}
}

func likedBy(target, local string, viewer *int64) query.Exists {
	return query.Exists{As: "is_liked", Table: "likes", ForeignField: target, LocalField: local, ViewerField: "liker_id", Viewer: viewer}
}

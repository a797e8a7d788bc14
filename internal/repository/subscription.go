package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/apperr"
	"vidtube/internal/edge"
	"vidtube/internal/model"
	"vidtube/internal/query"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Exists(ctx context.Context, k model.SubscriptionKey) (bool, error) {
	q := `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, k.SubscriberID, k.ChannelID); err != nil {
		return false, fmt.Errorf("failed to check subscription existence: %w", err)
	}
	return exists, nil
}

// Create inserts the edge. The primary key rejects a duplicate with
// edge.ErrDuplicate; the CHECK constraint rejects self-subscription.
func (r *subscriptionRepository) Create(ctx context.Context, k model.SubscriptionKey) error {
	q := `INSERT INTO subscriptions (subscriber_id, channel_id) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, q, k.SubscriberID, k.ChannelID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return edge.ErrDuplicate
	case isCheckViolation(err):
		return model.ErrCannotSubscribeSelf
	case isForeignKeyViolation(err):
		return apperr.Wrap(model.ErrChannelNotFound, err)
	default:
		return fmt.Errorf("failed to create subscription: %w", err)
	}
}

func (r *subscriptionRepository) Delete(ctx context.Context, k model.SubscriptionKey) (bool, error) {
	q := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	result, err := r.db.ExecContext(ctx, q, k.SubscriberID, k.ChannelID)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListSubscribers lists the users subscribed to channelID, newest first.
func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID int64, page query.Paginate) (*model.Page[model.SubscriptionEntry], error) {
	return r.list(ctx, "channel_id", "subscriber_id", channelID, page)
}

// ListSubscribedChannels lists the channels subscriberID follows, newest first.
func (r *subscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID int64, page query.Paginate) (*model.Page[model.SubscriptionEntry], error) {
	return r.list(ctx, "subscriber_id", "channel_id", subscriberID, page)
}

// list matches on one side of the edge and joins the profile on the other.
func (r *subscriptionRepository) list(ctx context.Context, matchCol, profileCol string, id int64, page query.Paginate) (*model.Page[model.SubscriptionEntry], error) {
	p := query.Pipeline{
		From:   "subscriptions",
		As:     "s",
		Key:    profileCol,
		Fields: []string{"created_at AS subscribed_at"},
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{query.Eq{Field: "s." + matchCol, Value: id}}},
			query.Lookup{Table: "users", As: "profile", LocalField: "s." + profileCol, ForeignField: "id", Fields: summaryFields},
			query.Sort{Column: "s.created_at", Desc: true},
			page,
		},
	}
	return query.Run[model.SubscriptionEntry](ctx, r.db, p)
}

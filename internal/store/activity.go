package store

import (
	"context"
	"fmt"
	"time"

	"edumatch/internal/utils"
	"edumatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const activityTableName = "edumatch.activity_log"

const (
	defaultMyActivityLimit     = 20
	defaultRecentActivityLimit = 50
)

var activityColumns = utils.StructTagValues(types.ActivityLog{})

// ActivityRepository is an append-only audit sink; entries are written by the
// domain workflows and only ever read back for display.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Record(ctx context.Context, entry *types.ActivityLog) error {

	entry.ID = utils.NanoID()
	entry.CreatedAt = time.Now()

	query, args, err := psql().Insert(activityTableName).SetMap(utils.StructToMap(entry)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert activity query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	return nil
}

func (r *ActivityRepository) ByUser(ctx context.Context, userID string, limit uint64) ([]*types.ActivityLog, error) {

	if limit == 0 {
		limit = defaultMyActivityLimit
	}

	query, args, err := psql().Select(activityColumns...).From(activityTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at desc", "id desc").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user activity query: %w", err)
	}

	var entries = make([]*types.ActivityLog, 0)
	err = pgxscan.Select(ctx, r.pool, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user activity: %w", err)
	}

	return entries, nil
}

func (r *ActivityRepository) Recent(ctx context.Context, limit uint64) ([]*types.ActivityLog, error) {

	if limit == 0 {
		limit = defaultRecentActivityLimit
	}

	query, args, err := psql().Select(activityColumns...).From(activityTableName).
		OrderBy("created_at desc", "id desc").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recent activity query: %w", err)
	}

	var entries = make([]*types.ActivityLog, 0)
	err = pgxscan.Select(ctx, r.pool, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent activity: %w", err)
	}

	return entries, nil
}

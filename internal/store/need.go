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

const needTableName = "edumatch.needs"

const defaultNeedPageSize = 100

var needColumns = utils.StructTagValues(types.Need{})

type NeedRepository struct {
	pool *pgxpool.Pool
}

func NewNeedRepository(pool *pgxpool.Pool) *NeedRepository {
	return &NeedRepository{pool: pool}
}

func (r *NeedRepository) Need(ctx context.Context, needID string) (*types.Need, error) {

	query, args, err := psql().Select(needColumns...).From(needTableName).
		Where(sq.Eq{"id": needID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate need query: %w", err)
	}

	var need = new(types.Need)
	err = pgxscan.Get(ctx, r.pool, need, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrNeedNotFound
		}
		return nil, fmt.Errorf("failed to fetch need: %w", err)
	}

	return need, nil
}

// Needs lists publicly visible needs, newest first. Equal timestamps are
// tie-broken by id so pagination stays stable.
func (r *NeedRepository) Needs(ctx context.Context, params types.NeedListParams) ([]*types.Need, error) {

	builder := psql().Select(needColumns...).From(needTableName).
		OrderBy("created_at desc", "id desc").
		Offset(params.Skip)

	if params.Status != nil {
		builder = builder.Where(sq.Eq{"status": *params.Status})
	}

	limit := params.Limit
	if limit == 0 {
		limit = defaultNeedPageSize
	}

	query, args, err := builder.Limit(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate needs query: %w", err)
	}

	var needs = make([]*types.Need, 0)
	err = pgxscan.Select(ctx, r.pool, &needs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch needs: %w", err)
	}

	return needs, nil
}

func (r *NeedRepository) NeedsBySchool(ctx context.Context, schoolID string, page types.PageParams) ([]*types.Need, error) {

	limit := page.Limit
	if limit == 0 {
		limit = defaultNeedPageSize
	}

	query, args, err := psql().Select(needColumns...).From(needTableName).
		Where(sq.Eq{"school_id": schoolID}).
		OrderBy("created_at desc", "id desc").
		Offset(page.Skip).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate school needs query: %w", err)
	}

	var needs = make([]*types.Need, 0)
	err = pgxscan.Select(ctx, r.pool, &needs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch school needs: %w", err)
	}

	return needs, nil
}

func (r *NeedRepository) CreateNeed(ctx context.Context, need *types.Need) error {

	need.ID = utils.NanoID()
	need.Status = types.NeedStatusActive
	need.CreatedAt = time.Now()
	need.UpdatedAt = nil

	query, args, err := psql().Insert(needTableName).SetMap(utils.StructToMap(need)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert need query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create need: %w", err)
	}

	return nil
}

// UpdateNeed applies only the fields present in upd, then returns the fresh
// row. Ownership and status-transition rules are validated by the caller.
func (r *NeedRepository) UpdateNeed(ctx context.Context, needID string, upd *types.NeedUpdate) (*types.Need, error) {

	query, args, err := psql().Update(needTableName).
		SetMap(needUpdateMap(upd)).
		Where(sq.Eq{"id": needID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update need query for need %s: %w", needID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update need: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, types.ErrNeedNotFound
	}

	return r.Need(ctx, needID)
}

func needUpdateMap(upd *types.NeedUpdate) map[string]any {
	m := map[string]any{
		"updated_at": time.Now(),
	}

	if upd.Title != nil {
		m["title"] = *upd.Title
	}
	if upd.Description != nil {
		m["description"] = *upd.Description
	}
	if upd.Category != nil {
		m["category"] = *upd.Category
	}
	if upd.Location != nil {
		m["location"] = *upd.Location
	}
	if upd.StudentCount != nil {
		m["student_count"] = *upd.StudentCount
	}
	if upd.ImageURL != nil {
		m["image_url"] = *upd.ImageURL
	}
	if upd.Urgency != nil {
		m["urgency"] = *upd.Urgency
	}
	if upd.SDGs != nil {
		m["sdgs"] = upd.SDGs
	}
	if upd.Status != nil {
		m["status"] = *upd.Status
	}

	return m
}

// DeleteNeed removes a need unless any donation references it. The check and
// the delete share one transaction so a concurrent claim cannot slip between
// them.
func (r *NeedRepository) DeleteNeed(ctx context.Context, needID string) error {

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete need tx: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery, countArgs, err := psql().Select("count(id)").From(donationTableName).
		Where(sq.Eq{"need_id": needID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate dependent donations query: %w", err)
	}

	var dependents int
	if err := tx.QueryRow(ctx, countQuery, countArgs...).Scan(&dependents); err != nil {
		return fmt.Errorf("failed to count dependent donations: %w", err)
	}

	if dependents > 0 {
		return types.ErrNeedHasDonations
	}

	query, args, err := psql().Delete(needTableName).Where(sq.Eq{"id": needID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete need query for need %s: %w", needID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete need: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrNeedNotFound
	}

	return tx.Commit(ctx)
}

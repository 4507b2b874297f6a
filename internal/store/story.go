package store

import (
	"context"
	"fmt"

	"edumatch/internal/utils"
	"edumatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const storyTableName = "edumatch.impact_stories"

const defaultStoryPageSize = 20

var storyColumns = utils.StructTagValues(types.ImpactStory{})

type StoryRepository struct {
	pool *pgxpool.Pool
}

func NewStoryRepository(pool *pgxpool.Pool) *StoryRepository {
	return &StoryRepository{pool: pool}
}

func (r *StoryRepository) Story(ctx context.Context, storyID string) (*types.ImpactStory, error) {

	query, args, err := psql().Select(storyColumns...).From(storyTableName).
		Where(sq.Eq{"id": storyID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate story query: %w", err)
	}

	var story types.ImpactStory
	err = pgxscan.Get(ctx, r.pool, &story, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch story: %w", err)
	}

	return &story, nil
}

func (r *StoryRepository) Stories(ctx context.Context, page types.PageParams) ([]*types.ImpactStory, error) {

	limit := page.Limit
	if limit == 0 {
		limit = defaultStoryPageSize
	}

	query, args, err := psql().Select(storyColumns...).From(storyTableName).
		OrderBy("created_at desc", "id desc").
		Offset(page.Skip).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate stories query: %w", err)
	}

	var stories = make([]*types.ImpactStory, 0)
	err = pgxscan.Select(ctx, r.pool, &stories, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stories: %w", err)
	}

	return stories, nil
}

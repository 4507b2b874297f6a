package store

import (
	"context"
	"fmt"
	"strconv"

	"edumatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// DashboardRepository computes read-only aggregates. Each report fans its
// independent sub-queries out concurrently and joins them before composing
// the result; the sub-queries share no state, so each may observe a slightly
// different snapshot under concurrent writes.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

func (r *DashboardRepository) SchoolStats(ctx context.Context, schoolID string) (*types.SchoolDashboardStats, error) {

	var stats types.SchoolDashboardStats

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := r.countNeeds(ctx, sq.Eq{"school_id": schoolID})
		stats.TotalNeeds = n
		return err
	})
	g.Go(func() error {
		n, err := r.countNeeds(ctx, sq.Eq{"school_id": schoolID, "status": types.NeedStatusActive})
		stats.ActiveNeeds = n
		return err
	})
	g.Go(func() error {
		n, err := r.countNeeds(ctx, sq.Eq{"school_id": schoolID, "status": types.NeedStatusCompleted})
		stats.CompletedNeeds = n
		return err
	})
	g.Go(func() error {
		n, err := r.sumStudents(ctx, sq.Eq{"school_id": schoolID, "status": types.NeedStatusCompleted})
		stats.StudentsBenefited = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute school stats: %w", err)
	}

	return &stats, nil
}

func (r *DashboardRepository) CompanyStats(ctx context.Context, companyID string) (*types.CompanyDashboardStats, error) {

	// TotalDonation and VolunteerHours stay zero until funding amounts and
	// volunteer tracking exist as data sources.
	var stats types.CompanyDashboardStats

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query, args, err := psql().Select("count(id)").From(donationTableName).
			Where(sq.Eq{"company_id": companyID, "status": types.DonationStatusCompleted}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate completed donations query: %w", err)
		}
		return r.pool.QueryRow(ctx, query, args...).Scan(&stats.CompletedProjects)
	})

	g.Go(func() error {
		query, args, err := psql().Select("coalesce(sum(n.student_count), 0)").
			From(donationTableName + " d").
			Join(needTableName + " n ON d.need_id = n.id").
			Where(sq.Eq{"d.company_id": companyID, "d.status": types.DonationStatusCompleted}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate students helped query: %w", err)
		}
		return r.pool.QueryRow(ctx, query, args...).Scan(&stats.StudentsHelped)
	})

	g.Go(func() error {
		lists, err := r.companySDGs(ctx, companyID)
		if err != nil {
			return err
		}
		stats.SDGContributions = tallySDGs(lists)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute company stats: %w", err)
	}

	return &stats, nil
}

func (r *DashboardRepository) countNeeds(ctx context.Context, pred sq.Eq) (int, error) {

	query, args, err := psql().Select("count(id)").From(needTableName).Where(pred).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate need count query: %w", err)
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count needs: %w", err)
	}

	return n, nil
}

func (r *DashboardRepository) sumStudents(ctx context.Context, pred sq.Eq) (int, error) {

	query, args, err := psql().Select("coalesce(sum(student_count), 0)").From(needTableName).Where(pred).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate student sum query: %w", err)
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to sum students: %w", err)
	}

	return n, nil
}

// companySDGs returns the sdgs arrays of every need the company has a
// donation against, completed or not, one row per donation.
func (r *DashboardRepository) companySDGs(ctx context.Context, companyID string) ([][]int32, error) {

	query, args, err := psql().Select("n.sdgs").
		From(donationTableName + " d").
		Join(needTableName + " n ON d.need_id = n.id").
		Where(sq.Eq{"d.company_id": companyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sdg query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sdgs: %w", err)
	}
	defer rows.Close()

	var lists [][]int32
	for rows.Next() {
		var sdgs []int32
		if err := rows.Scan(&sdgs); err != nil {
			return nil, fmt.Errorf("failed to scan sdgs row: %w", err)
		}
		lists = append(lists, sdgs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sdgs rows: %w", err)
	}

	return lists, nil
}

// tallySDGs flattens per-need tag arrays into a tag -> occurrence count map,
// keyed by the stringified tag.
func tallySDGs(lists [][]int32) map[string]int {
	tally := make(map[string]int)
	for _, sdgs := range lists {
		for _, sdg := range sdgs {
			tally[strconv.Itoa(int(sdg))]++
		}
	}
	return tally
}

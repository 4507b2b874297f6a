package store

import (
	"context"
	"fmt"
	"time"

	"edumatch/internal/utils"
	"edumatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donationTableName = "edumatch.donations"

var donationColumns = utils.StructTagValues(types.Donation{})

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func (r *DonationRepository) Donation(ctx context.Context, donationID string) (*types.Donation, error) {

	query, args, err := psql().Select(donationColumns...).From(donationTableName).
		Where(sq.Eq{"id": donationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation query: %w", err)
	}

	var donation = new(types.Donation)
	err = pgxscan.Get(ctx, r.pool, donation, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to fetch donation: %w", err)
	}

	return donation, nil
}

func (r *DonationRepository) DonationsByCompany(ctx context.Context, companyID string, page types.PageParams) ([]*types.Donation, error) {

	limit := page.Limit
	if limit == 0 {
		limit = defaultNeedPageSize
	}

	query, args, err := psql().Select(donationColumns...).From(donationTableName).
		Where(sq.Eq{"company_id": companyID}).
		OrderBy("created_at desc", "id desc").
		Offset(page.Skip).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate company donations query: %w", err)
	}

	var donations = make([]*types.Donation, 0)
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company donations: %w", err)
	}

	return donations, nil
}

// ProposeDonation claims the target need for the donation. The claim is a
// conditional update guarded by the need's prior status, so of N concurrent
// proposals against the same need exactly one commits; the rest observe the
// post-claim row and get ErrNeedUnavailable. The claim and the donation
// insert share one transaction: they land together or not at all.
func (r *DonationRepository) ProposeDonation(ctx context.Context, donation *types.Donation) error {

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin propose donation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	claimQuery, claimArgs, err := psql().Update(needTableName).
		Set("status", types.NeedStatusInProgress).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": donation.NeedID, "status": types.NeedStatusActive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate claim query: %w", err)
	}

	tag, err := tx.Exec(ctx, claimQuery, claimArgs...)
	if err != nil {
		return fmt.Errorf("failed to claim need %s: %w", donation.NeedID, err)
	}

	if tag.RowsAffected() == 0 {
		// Zero rows means the need is either gone or no longer active.
		// Probe inside the same tx to tell the two apart.
		var status types.NeedStatus
		probe := tx.QueryRow(ctx, "SELECT status FROM "+needTableName+" WHERE id = $1", donation.NeedID)
		if err := probe.Scan(&status); err != nil {
			if err == pgx.ErrNoRows {
				return types.ErrNeedNotFound
			}
			return fmt.Errorf("failed to probe need %s: %w", donation.NeedID, err)
		}
		return types.ErrNeedUnavailable
	}

	donation.ID = utils.NanoID()
	donation.Status = types.DonationStatusPending
	donation.Progress = 0
	donation.CreatedAt = time.Now()
	donation.CompletionDate = nil

	insertQuery, insertArgs, err := psql().Insert(donationTableName).
		SetMap(utils.StructToMap(donation)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert donation query: %w", err)
	}

	if _, err := tx.Exec(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return tx.Commit(ctx)
}

// ApproveDonation moves a pending donation to approved.
func (r *DonationRepository) ApproveDonation(ctx context.Context, donationID string) (*types.Donation, error) {

	query, args, err := psql().Update(donationTableName).
		Set("status", types.DonationStatusApproved).
		Where(sq.Eq{"id": donationID, "status": types.DonationStatusPending}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate approve donation query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to approve donation %s: %w", donationID, err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.Donation(ctx, donationID); err != nil {
			return nil, err
		}
		return nil, types.ErrDonationNotPending
	}

	return r.Donation(ctx, donationID)
}

// CompleteDonation closes out a donation and its need together. Both updates
// commit in one transaction; a donation can never read completed while its
// need is still in progress.
func (r *DonationRepository) CompleteDonation(ctx context.Context, donationID string) (*types.Donation, error) {

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin complete donation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	completionDate := time.Now()

	query, args, err := psql().Update(donationTableName).
		Set("status", types.DonationStatusCompleted).
		Set("progress", 100).
		Set("completion_date", completionDate).
		Where(sq.Eq{
			"id":     donationID,
			"status": []types.DonationStatus{types.DonationStatusPending, types.DonationStatusApproved},
		}).
		Suffix("RETURNING need_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate complete donation query: %w", err)
	}

	var needID string
	if err := tx.QueryRow(ctx, query, args...).Scan(&needID); err != nil {
		if err == pgx.ErrNoRows {
			if _, derr := r.Donation(ctx, donationID); derr != nil {
				return nil, derr
			}
			return nil, types.ErrDonationClosed
		}
		return nil, fmt.Errorf("failed to complete donation %s: %w", donationID, err)
	}

	needQuery, needArgs, err := psql().Update(needTableName).
		Set("status", types.NeedStatusCompleted).
		Set("updated_at", completionDate).
		Where(sq.Eq{"id": needID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate complete need query: %w", err)
	}

	if _, err := tx.Exec(ctx, needQuery, needArgs...); err != nil {
		return nil, fmt.Errorf("failed to complete need %s: %w", needID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit complete donation tx: %w", err)
	}

	return r.Donation(ctx, donationID)
}

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL is idempotent so `edumatch migrate` can run on every deploy.
// The partial unique index on donations backstops the matcher's exclusivity
// invariant at the schema level: only one non-cancelled donation per need.
const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS edumatch;

CREATE TABLE IF NOT EXISTS edumatch.users (
	id            text PRIMARY KEY,
	email         text NOT NULL UNIQUE,
	password_hash text NOT NULL,
	role          text NOT NULL CHECK (role IN ('school', 'company')),
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS edumatch.needs (
	id            text PRIMARY KEY,
	school_id     text NOT NULL REFERENCES edumatch.users (id),
	title         text NOT NULL,
	description   text NOT NULL,
	category      text NOT NULL,
	location      text NOT NULL,
	student_count integer NOT NULL CHECK (student_count > 0),
	image_url     text,
	urgency       text NOT NULL CHECK (urgency IN ('high', 'medium', 'low')),
	sdgs          integer[] NOT NULL,
	status        text NOT NULL DEFAULT 'active'
	              CHECK (status IN ('active', 'in_progress', 'completed')),
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz
);

CREATE INDEX IF NOT EXISTS needs_school_id_idx ON edumatch.needs (school_id);
CREATE INDEX IF NOT EXISTS needs_status_idx ON edumatch.needs (status);

CREATE TABLE IF NOT EXISTS edumatch.donations (
	id              text PRIMARY KEY,
	need_id         text NOT NULL REFERENCES edumatch.needs (id),
	company_id      text NOT NULL REFERENCES edumatch.users (id),
	donation_type   text NOT NULL,
	description     text NOT NULL,
	progress        integer NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
	status          text NOT NULL DEFAULT 'pending'
	                CHECK (status IN ('pending', 'approved', 'completed', 'cancelled')),
	created_at      timestamptz NOT NULL DEFAULT now(),
	completion_date timestamptz
);

CREATE UNIQUE INDEX IF NOT EXISTS donations_need_id_open_idx
	ON edumatch.donations (need_id) WHERE status <> 'cancelled';
CREATE INDEX IF NOT EXISTS donations_company_id_idx ON edumatch.donations (company_id);

CREATE TABLE IF NOT EXISTS edumatch.impact_stories (
	id             text PRIMARY KEY,
	donation_id    text NOT NULL REFERENCES edumatch.donations (id),
	title          text NOT NULL,
	content        text NOT NULL,
	image_url      text,
	video_url      text,
	impact_metrics text,
	created_at     timestamptz NOT NULL DEFAULT now(),
	updated_at     timestamptz
);

CREATE TABLE IF NOT EXISTS edumatch.activity_log (
	id            text PRIMARY KEY,
	user_id       text NOT NULL,
	activity_type text NOT NULL,
	description   text NOT NULL,
	extra_data    text,
	created_at    timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS activity_log_user_id_idx ON edumatch.activity_log (user_id, created_at DESC);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

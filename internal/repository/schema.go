package repository

import (
	"context"
	"fmt"
)

const schema = `
CREATE SCHEMA IF NOT EXISTS ledger;

CREATE TABLE IF NOT EXISTS ledger.operators (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ledger.users (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '#3B82F6',
	note       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ledger.cards (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '#3B82F6',
	note       TEXT NOT NULL DEFAULT '',
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ledger.purchases (
	id                     UUID PRIMARY KEY,
	user_id                UUID NOT NULL REFERENCES ledger.users(id),
	card_id                UUID REFERENCES ledger.cards(id) ON DELETE SET NULL,
	store_name             TEXT NOT NULL DEFAULT '',
	product_name           TEXT NOT NULL DEFAULT '',
	description            TEXT NOT NULL DEFAULT '',
	total_amount           NUMERIC(14, 2) NOT NULL CHECK (total_amount > 0),
	installment_count      INTEGER NOT NULL CHECK (installment_count >= 1),
	first_installment_date DATE NOT NULL,
	currency               CHAR(3) NOT NULL DEFAULT 'TRY',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS purchases_user_id_idx ON ledger.purchases (user_id);
CREATE INDEX IF NOT EXISTS purchases_card_id_idx ON ledger.purchases (card_id);

CREATE TABLE IF NOT EXISTS ledger.payment_records (
	id           UUID PRIMARY KEY,
	user_id      UUID NOT NULL REFERENCES ledger.users(id),
	month        CHAR(7) NOT NULL,
	amount       NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
	payment_date DATE NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS payment_records_user_month_idx ON ledger.payment_records (user_id, month);

CREATE TABLE IF NOT EXISTS ledger.audit_logs (
	id          UUID PRIMARY KEY,
	action      TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	meta        JSONB NOT NULL DEFAULT '{}'::jsonb,
	actor       TEXT NOT NULL DEFAULT '',
	signature   TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_logs_created_at_idx ON ledger.audit_logs (created_at DESC);
`

// Migrate creates the ledger schema if it does not exist yet
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

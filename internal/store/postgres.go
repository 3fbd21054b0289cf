// Package store implements the persistence boundary over PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lmcabrera/assistimport/internal/core"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Postgres persists assistance records and fund reports. It implements
// core.RecordStore and core.FundStore.
type Postgres struct {
	db DBTX
}

// New creates a Postgres store over a pool or transaction.
func New(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// NewFromPool creates a Postgres store from a pgx pool.
func NewFromPool(pool *pgxpool.Pool) *Postgres {
	return &Postgres{db: pool}
}

// EnsureSchema creates the tables and indexes if they do not exist.
// Statements run one at a time; pgx's extended protocol rejects
// multi-statement strings.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ddl := []string{`
CREATE TABLE IF NOT EXISTS assistance_records (
	id                       UUID PRIMARY KEY,
	ts                       TIMESTAMPTZ NOT NULL,
	assistance_date          TIMESTAMPTZ NOT NULL,
	month                    TEXT NOT NULL,
	year                     INT NOT NULL,
	unit                     TEXT NOT NULL DEFAULT '',
	assisted_by              TEXT NOT NULL DEFAULT '',
	owner_name               TEXT NOT NULL DEFAULT '',
	business_name            TEXT NOT NULL DEFAULT '',
	city_municipality        TEXT NOT NULL DEFAULT '',
	assistance_title         TEXT NOT NULL DEFAULT '',
	gender                   TEXT NOT NULL,
	gender_other             TEXT NOT NULL DEFAULT '',
	priority_industry        TEXT NOT NULL,
	priority_industry_other  TEXT NOT NULL DEFAULT '',
	edt_level                TEXT NOT NULL,
	type_of_assistance       TEXT NOT NULL,
	type_of_assistance_other TEXT NOT NULL DEFAULT '',
	strategic_measure        TEXT NOT NULL,
	strategic_measure_other  TEXT NOT NULL DEFAULT '',
	ecommerce                TEXT NOT NULL CHECK (ecommerce IN ('Y','N')),
	ecommerce_link_or_no     TEXT NOT NULL DEFAULT '',
	raw_data                 JSONB,
	import_batch_id          TEXT NOT NULL,
	import_file_name         TEXT NOT NULL DEFAULT '',
	row_number               INT NOT NULL,
	validation_errors        JSONB,
	is_validated             BOOLEAN NOT NULL DEFAULT TRUE,
	created_by               TEXT NOT NULL DEFAULT '',
	updated_by               TEXT NOT NULL DEFAULT '',
	created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS idx_assistance_records_batch ON assistance_records (import_batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assistance_records_year ON assistance_records (year, created_at)`,
		`
CREATE TABLE IF NOT EXISTS fund_reports (
	id                UUID PRIMARY KEY,
	program_name      TEXT NOT NULL DEFAULT '',
	month             TEXT NOT NULL,
	year              INT NOT NULL,
	available_funds   NUMERIC(18,2) NOT NULL,
	liquidated_funds  NUMERIC(18,2) NOT NULL,
	funds_remaining   NUMERIC(18,2) NOT NULL,
	percent_disbursed NUMERIC(7,2) NOT NULL,
	created_by        TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS idx_fund_reports_year ON fund_reports (year, created_at)`,
	}

	for _, stmt := range ddl {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const recordColumns = `id, ts, assistance_date, month, year, unit, assisted_by,
	owner_name, business_name, city_municipality, assistance_title,
	gender, gender_other, priority_industry, priority_industry_other,
	edt_level, type_of_assistance, type_of_assistance_other,
	strategic_measure, strategic_measure_other, ecommerce,
	ecommerce_link_or_no, raw_data, import_batch_id, import_file_name,
	row_number, validation_errors, is_validated, created_by, updated_by,
	created_at, updated_at`

// SaveRecord inserts one record. The caller owns ID generation; a duplicate
// ID surfaces as a constraint error and is counted by the confirm loop.
func (p *Postgres) SaveRecord(ctx context.Context, rec *core.Record) error {
	rawData, err := marshalOrNil(rec.RawData)
	if err != nil {
		return fmt.Errorf("marshal raw data: %w", err)
	}
	valErrs, err := marshalOrNil(rec.ValidationErrors)
	if err != nil {
		return fmt.Errorf("marshal validation errors: %w", err)
	}

	sql := `INSERT INTO assistance_records (` + recordColumns + `) VALUES
	($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
	 $21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32)`

	_, err = p.db.Exec(ctx, sql,
		rec.ID, rec.Timestamp, rec.AssistanceDate, rec.Month, rec.Year,
		rec.Unit, rec.AssistedBy, rec.OwnerName, rec.BusinessName,
		rec.CityMunicipality, rec.AssistanceTitle,
		rec.Gender, rec.GenderOther,
		rec.PriorityIndustry, rec.PriorityIndustryOther,
		rec.EDTLevel,
		rec.TypeOfAssistance, rec.TypeOfAssistanceOther,
		rec.StrategicMeasure, rec.StrategicMeasureOther,
		rec.Ecommerce, rec.EcommerceLinkOrNo,
		rawData, rec.ImportBatchID, rec.ImportFileName, rec.RowNumber,
		valErrs, rec.IsValidated, rec.CreatedBy, rec.UpdatedBy,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert record row %d: %w", rec.RowNumber, err)
	}
	return nil
}

// ListRecordsByBatch returns all records for one import batch in row order.
func (p *Postgres) ListRecordsByBatch(ctx context.Context, batchID string) ([]core.Record, error) {
	sql := `SELECT ` + recordColumns + ` FROM assistance_records
	WHERE import_batch_id = $1 ORDER BY row_number`
	return p.queryRecords(ctx, sql, batchID)
}

// ListRecordsByYear returns all records for one year in creation order.
func (p *Postgres) ListRecordsByYear(ctx context.Context, year int) ([]core.Record, error) {
	sql := `SELECT ` + recordColumns + ` FROM assistance_records
	WHERE year = $1 ORDER BY created_at, row_number`
	return p.queryRecords(ctx, sql, year)
}

// DeleteRecord hard-deletes one record by ID.
func (p *Postgres) DeleteRecord(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM assistance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteRecordsByBatch hard-deletes every record of an import batch and
// returns the count removed.
func (p *Postgres) DeleteRecordsByBatch(ctx context.Context, batchID string) (int64, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM assistance_records WHERE import_batch_id = $1`, batchID)
	if err != nil {
		return 0, fmt.Errorf("delete batch %s: %w", batchID, err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) queryRecords(ctx context.Context, sql string, args ...any) ([]core.Record, error) {
	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var rec core.Record
		var rawData, valErrs []byte
		err := rows.Scan(
			&rec.ID, &rec.Timestamp, &rec.AssistanceDate, &rec.Month, &rec.Year,
			&rec.Unit, &rec.AssistedBy, &rec.OwnerName, &rec.BusinessName,
			&rec.CityMunicipality, &rec.AssistanceTitle,
			&rec.Gender, &rec.GenderOther,
			&rec.PriorityIndustry, &rec.PriorityIndustryOther,
			&rec.EDTLevel,
			&rec.TypeOfAssistance, &rec.TypeOfAssistanceOther,
			&rec.StrategicMeasure, &rec.StrategicMeasureOther,
			&rec.Ecommerce, &rec.EcommerceLinkOrNo,
			&rawData, &rec.ImportBatchID, &rec.ImportFileName, &rec.RowNumber,
			&valErrs, &rec.IsValidated, &rec.CreatedBy, &rec.UpdatedBy,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if len(rawData) > 0 {
			if err := json.Unmarshal(rawData, &rec.RawData); err != nil {
				return nil, fmt.Errorf("unmarshal raw data: %w", err)
			}
		}
		if len(valErrs) > 0 {
			if err := json.Unmarshal(valErrs, &rec.ValidationErrors); err != nil {
				return nil, fmt.Errorf("unmarshal validation errors: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// SaveFundReport inserts one fund report.
func (p *Postgres) SaveFundReport(ctx context.Context, r *core.FundReport) error {
	_, err := p.db.Exec(ctx, `INSERT INTO fund_reports
	(id, program_name, month, year, available_funds, liquidated_funds,
	 funds_remaining, percent_disbursed, created_by, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		r.ID, r.ProgramName, r.Month, r.Year,
		r.AvailableFunds, r.LiquidatedFunds,
		r.FundsRemaining, r.PercentDisbursed,
		r.CreatedBy, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fund report: %w", err)
	}
	return nil
}

// ListFundReports returns fund reports for a year in creation order.
func (p *Postgres) ListFundReports(ctx context.Context, year int) ([]core.FundReport, error) {
	rows, err := p.db.Query(ctx, `SELECT
	id, program_name, month, year, available_funds, liquidated_funds,
	funds_remaining, percent_disbursed, created_by, created_at, updated_at
	FROM fund_reports WHERE year = $1 ORDER BY created_at`, year)
	if err != nil {
		return nil, fmt.Errorf("query fund reports: %w", err)
	}
	defer rows.Close()

	var reports []core.FundReport
	for rows.Next() {
		var r core.FundReport
		var available, liquidated, remaining, percent string
		err := rows.Scan(
			&r.ID, &r.ProgramName, &r.Month, &r.Year,
			&available, &liquidated, &remaining, &percent,
			&r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan fund report: %w", err)
		}
		if r.AvailableFunds, err = decimal.NewFromString(available); err != nil {
			return nil, fmt.Errorf("parse available funds: %w", err)
		}
		if r.LiquidatedFunds, err = decimal.NewFromString(liquidated); err != nil {
			return nil, fmt.Errorf("parse liquidated funds: %w", err)
		}
		if r.FundsRemaining, err = decimal.NewFromString(remaining); err != nil {
			return nil, fmt.Errorf("parse funds remaining: %w", err)
		}
		if r.PercentDisbursed, err = decimal.NewFromString(percent); err != nil {
			return nil, fmt.Errorf("parse percent disbursed: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fund reports: %w", err)
	}
	return reports, nil
}

// marshalOrNil marshals v to JSON, returning nil for empty values so the
// column stays NULL.
func marshalOrNil(v any) ([]byte, error) {
	switch t := v.(type) {
	case map[string]string:
		if len(t) == 0 {
			return nil, nil
		}
	case []core.ValidationError:
		if len(t) == 0 {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

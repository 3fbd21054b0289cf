package core

// funds.go normalizes fund-liquidation reports, the simpler sibling of the
// assistance import. Amounts use decimal arithmetic; float rounding is not
// acceptable for disbursement figures.

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundReport tracks available versus liquidated funds for one program
// period. FundsRemaining and PercentDisbursed are derived on normalization,
// never supplied by the caller.
type FundReport struct {
	ID              string          `json:"id,omitempty"`
	ProgramName     string          `json:"programName"`
	Month           string          `json:"month"`
	Year            int             `json:"year"`
	AvailableFunds  decimal.Decimal `json:"availableFunds"`
	LiquidatedFunds decimal.Decimal `json:"liquidatedFunds"`
	FundsRemaining  decimal.Decimal `json:"fundsRemaining"`
	PercentDisbursed decimal.Decimal `json:"percentDisbursed"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt,omitempty"`
}

// FundStore is the persistence boundary for fund reports.
type FundStore interface {
	SaveFundReport(ctx context.Context, r *FundReport) error
	ListFundReports(ctx context.Context, year int) ([]FundReport, error)
}

// NormalizeFundReport derives the dependent fields of a fund report:
//
//	liquidated' = min(liquidated, available)
//	remaining   = available - liquidated'
//	disbursed%  = liquidated' / available * 100  (0 when available is 0)
//
// Liquidated can never exceed available after normalization, and negative
// inputs clamp to zero.
func NormalizeFundReport(r FundReport) FundReport {
	zero := decimal.Zero

	if r.AvailableFunds.LessThan(zero) {
		r.AvailableFunds = zero
	}
	if r.LiquidatedFunds.LessThan(zero) {
		r.LiquidatedFunds = zero
	}
	if r.LiquidatedFunds.GreaterThan(r.AvailableFunds) {
		r.LiquidatedFunds = r.AvailableFunds
	}

	r.FundsRemaining = r.AvailableFunds.Sub(r.LiquidatedFunds)
	if r.AvailableFunds.IsZero() {
		r.PercentDisbursed = zero
	} else {
		r.PercentDisbursed = r.LiquidatedFunds.
			Div(r.AvailableFunds).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return r
}

// FundService normalizes and persists fund reports.
type FundService struct {
	store FundStore
	now   func() time.Time
}

// NewFundService creates a FundService over the given store.
func NewFundService(store FundStore) *FundService {
	return &FundService{store: store, now: time.Now}
}

// Save normalizes a report and persists it.
func (s *FundService) Save(ctx context.Context, r FundReport, createdBy string) (FundReport, error) {
	r = NormalizeFundReport(r)
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Month == "" || r.Year == 0 {
		now := s.now()
		if r.Month == "" {
			r.Month = Months[now.Month()-1]
		}
		if r.Year == 0 {
			r.Year = now.Year()
		}
	}
	r.CreatedBy = createdBy
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt

	if err := s.store.SaveFundReport(ctx, &r); err != nil {
		return FundReport{}, fmt.Errorf("save fund report: %w", err)
	}
	return r, nil
}

// List returns fund reports for a year with dependent fields re-derived.
func (s *FundService) List(ctx context.Context, year int) ([]FundReport, error) {
	reports, err := s.store.ListFundReports(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list fund reports: %w", err)
	}
	for i := range reports {
		reports[i] = NormalizeFundReport(reports[i])
	}
	return reports, nil
}

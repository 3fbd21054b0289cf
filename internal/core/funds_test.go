package core

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestNormalizeFundReport(t *testing.T) {
	tests := []struct {
		name          string
		available     string
		liquidated    string
		wantLiquid    string
		wantRemaining string
		wantPercent   string
	}{
		{"typical", "100000", "25000", "25000", "75000", "25"},
		{"fully disbursed", "100000", "100000", "100000", "0", "100"},
		{"over-liquidated clamps", "100000", "150000", "100000", "0", "100"},
		{"zero available", "0", "5000", "0", "0", "0"},
		{"zero both", "0", "0", "0", "0", "0"},
		{"negative available clamps", "-500", "100", "0", "0", "0"},
		{"negative liquidated clamps", "1000", "-100", "0", "1000", "0"},
		{"fractional percent", "3000", "1000", "1000", "2000", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFundReport(FundReport{
				AvailableFunds:  d(tt.available),
				LiquidatedFunds: d(tt.liquidated),
			})

			assert.True(t, got.LiquidatedFunds.Equal(d(tt.wantLiquid)),
				"LiquidatedFunds = %s, want %s", got.LiquidatedFunds, tt.wantLiquid)
			assert.True(t, got.FundsRemaining.Equal(d(tt.wantRemaining)),
				"FundsRemaining = %s, want %s", got.FundsRemaining, tt.wantRemaining)
			assert.True(t, got.PercentDisbursed.Equal(d(tt.wantPercent)),
				"PercentDisbursed = %s, want %s", got.PercentDisbursed, tt.wantPercent)
		})
	}
}

// Liquidated can never exceed available after normalization.
func TestNormalizeFundReport_Invariant(t *testing.T) {
	inputs := [][2]string{
		{"1", "2"}, {"0.01", "99999"}, {"500.50", "500.51"}, {"0", "1"},
	}
	for _, in := range inputs {
		got := NormalizeFundReport(FundReport{
			AvailableFunds:  d(in[0]),
			LiquidatedFunds: d(in[1]),
		})
		assert.True(t, got.LiquidatedFunds.LessThanOrEqual(got.AvailableFunds),
			"liquidated %s > available %s", got.LiquidatedFunds, got.AvailableFunds)
		assert.True(t, got.FundsRemaining.Equal(got.AvailableFunds.Sub(got.LiquidatedFunds)))
	}
}

func TestFundService_Save(t *testing.T) {
	store := &memStore{}
	svc := NewFundService(store)

	saved, err := svc.Save(context.Background(), FundReport{
		ProgramName:     "Livelihood Seeding",
		Year:            2025,
		Month:           "March",
		AvailableFunds:  d("100000"),
		LiquidatedFunds: d("150000"),
	}, "ops@dti")

	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "ops@dti", saved.CreatedBy)
	assert.True(t, saved.LiquidatedFunds.Equal(d("100000")))
	assert.True(t, saved.FundsRemaining.Equal(d("0")))
	assert.True(t, saved.PercentDisbursed.Equal(d("100")))
	require.Len(t, store.funds, 1)
}

func TestFundService_SaveDefaultsPeriod(t *testing.T) {
	svc := NewFundService(&memStore{})

	saved, err := svc.Save(context.Background(), FundReport{
		AvailableFunds: d("10"),
	}, "")

	require.NoError(t, err)
	assert.NotEmpty(t, saved.Month)
	assert.NotZero(t, saved.Year)
}

func TestFundService_ListRederives(t *testing.T) {
	store := &memStore{funds: []FundReport{{
		Year:            2025,
		AvailableFunds:  d("1000"),
		LiquidatedFunds: d("2000"), // stale row written before clamping
	}}}
	svc := NewFundService(store)

	reports, err := svc.List(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].LiquidatedFunds.Equal(d("1000")))
	assert.True(t, reports[0].PercentDisbursed.Equal(d("100")))
}

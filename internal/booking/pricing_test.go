package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

func TestHourlyRate(t *testing.T) {
	tests := []struct {
		name    string
		people  int
		want    int
		wantErr bool
	}{
		{name: "single room", people: 1, want: 15000},
		{name: "double room", people: 2, want: 30000},
		{name: "five person room", people: 5, want: 75000},
		{name: "unsupported size", people: 3, wantErr: true},
		{name: "zero people", people: 0, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HourlyRate(tt.people)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadCapacity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		people   int
		hours    int
		tier     string
		want     int
	}{
		{name: "basic pays full rate", people: 1, hours: 2, tier: model.TierBasic, want: 30000},
		{name: "premium gets 5 percent off", people: 2, hours: 1, tier: model.TierPremium, want: 28500},
		{name: "deluxe gets 10 percent off", people: 1, hours: 3, tier: model.TierDeluxe, want: 40500},
		{name: "deluxe five person", people: 5, hours: 2, tier: model.TierDeluxe, want: 135000},
		{name: "unknown tier treated as basic", people: 1, hours: 1, tier: "Gold", want: 15000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tt.people, tt.hours, tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceRejectsBadCapacity(t *testing.T) {
	_, err := Price(4, 2, model.TierBasic)
	assert.ErrorIs(t, err, ErrBadCapacity)
}

func TestPriceDiscountNeverRaises(t *testing.T) {
	for _, people := range []int{1, 2, 5} {
		for hours := 1; hours <= 14; hours++ {
			base, err := Price(people, hours, model.TierBasic)
			require.NoError(t, err)
			prem, err := Price(people, hours, model.TierPremium)
			require.NoError(t, err)
			del, err := Price(people, hours, model.TierDeluxe)
			require.NoError(t, err)
			assert.LessOrEqual(t, prem, base)
			assert.LessOrEqual(t, del, prem)
		}
	}
}

func TestSignupCost(t *testing.T) {
	tests := []struct {
		name    string
		tier    string
		first   bool
		want    int
		wantErr bool
	}{
		{name: "premium first signup half price", tier: model.TierPremium, first: true, want: 75000},
		{name: "premium repeat full price", tier: model.TierPremium, first: false, want: 150000},
		{name: "deluxe first signup half price", tier: model.TierDeluxe, first: true, want: 125000},
		{name: "deluxe repeat full price", tier: model.TierDeluxe, first: false, want: 250000},
		{name: "basic cannot be purchased", tier: model.TierBasic, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignupCost(tt.tier, tt.first)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadTier)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenewalCost(t *testing.T) {
	tests := []struct {
		name    string
		tier    string
		months  int
		want    int
		wantErr error
	}{
		{name: "premium one month", tier: model.TierPremium, months: 1, want: 150000},
		{name: "premium three months 20 percent off", tier: model.TierPremium, months: 3, want: 360000},
		{name: "premium six months 30 percent off", tier: model.TierPremium, months: 6, want: 630000},
		{name: "deluxe one month", tier: model.TierDeluxe, months: 1, want: 250000},
		{name: "deluxe three months", tier: model.TierDeluxe, months: 3, want: 600000},
		{name: "deluxe six months", tier: model.TierDeluxe, months: 6, want: 1050000},
		{name: "invalid period", tier: model.TierPremium, months: 2, wantErr: ErrBadRenewalPeriod},
		{name: "invalid tier", tier: model.TierBasic, months: 1, wantErr: ErrBadTier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenewalCost(tt.tier, tt.months)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

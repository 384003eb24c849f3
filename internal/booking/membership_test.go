package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

func TestRenewalDays(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		current *model.Membership
		months  int
		want    int
	}{
		{
			name:    "no current membership",
			current: nil,
			months:  1,
			want:    30,
		},
		{
			name: "ten days used keeps twenty",
			current: &model.Membership{
				StartDate:    now.AddDate(0, 0, -10),
				DurationDays: 30,
			},
			months: 1,
			want:   50,
		},
		{
			name: "renewing on the start day keeps everything",
			current: &model.Membership{
				StartDate:    now,
				DurationDays: 30,
			},
			months: 3,
			want:   120,
		},
		{
			name: "expired remainder clamps to zero",
			current: &model.Membership{
				StartDate:    now.AddDate(0, 0, -45),
				DurationDays: 30,
			},
			months: 1,
			want:   30,
		},
		{
			name: "six month purchase",
			current: &model.Membership{
				StartDate:    now.AddDate(0, 0, -29),
				DurationDays: 30,
			},
			months: 6,
			want:   181,
		},
		{
			name: "partial day still counts as remaining",
			current: &model.Membership{
				StartDate:    now.Add(-36 * time.Hour), // 1.5 days in
				DurationDays: 30,
			},
			months: 1,
			want:   59,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenewalDays(tt.current, tt.months, now))
		})
	}
}

func TestRenewalDaysNeverBelowPurchase(t *testing.T) {
	now := time.Now()
	for daysAgo := 0; daysAgo <= 90; daysAgo += 5 {
		m := &model.Membership{StartDate: now.AddDate(0, 0, -daysAgo), DurationDays: 30}
		got := RenewalDays(m, 1, now)
		assert.GreaterOrEqual(t, got, 30, "daysAgo=%d", daysAgo)
	}
}

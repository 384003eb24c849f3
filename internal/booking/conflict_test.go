package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(h int) time.Time {
	return time.Date(2026, 3, 12, h, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		aStart, aEnd           time.Time
		bStart, bEnd           time.Time
		want                   bool
	}{
		{name: "identical intervals", aStart: at(9), aEnd: at(11), bStart: at(9), bEnd: at(11), want: true},
		{name: "partial overlap", aStart: at(9), aEnd: at(11), bStart: at(10), bEnd: at(12), want: true},
		{name: "contained interval", aStart: at(9), aEnd: at(14), bStart: at(10), bEnd: at(11), want: true},
		{name: "containing interval", aStart: at(10), aEnd: at(11), bStart: at(9), bEnd: at(14), want: true},
		{name: "back to back", aStart: at(9), aEnd: at(11), bStart: at(11), bEnd: at(13), want: false},
		{name: "back to back reversed", aStart: at(11), aEnd: at(13), bStart: at(9), bEnd: at(11), want: false},
		{name: "disjoint", aStart: at(8), aEnd: at(9), bStart: at(12), bEnd: at(13), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

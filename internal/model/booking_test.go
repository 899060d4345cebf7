package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical windows", day(1), day(5), day(1), day(5), true},
		{"partial overlap right", day(1), day(5), day(3), day(8), true},
		{"partial overlap left", day(3), day(8), day(1), day(5), true},
		{"b inside a", day(1), day(10), day(3), day(5), true},
		{"a inside b", day(3), day(5), day(1), day(10), true},
		{"one night shared", day(1), day(3), day(2), day(4), true},
		{"disjoint before", day(1), day(3), day(5), day(8), false},
		{"disjoint after", day(5), day(8), day(1), day(3), false},
		{"back to back, a then b", day(1), day(3), day(3), day(5), false},
		{"back to back, b then a", day(3), day(5), day(1), day(3), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Intersection is symmetric.
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestActiveBookingStatuses(t *testing.T) {
	// The conflict guard derives its status filter from this list;
	// cancelled must never appear in it.
	assert.Equal(t, []string{BookingPending, BookingConfirmed}, ActiveBookingStatuses)
	assert.NotContains(t, ActiveBookingStatuses, BookingCancelled)
}

func TestValidBookingStatus(t *testing.T) {
	assert.True(t, ValidBookingStatus(BookingPending))
	assert.True(t, ValidBookingStatus(BookingConfirmed))
	assert.True(t, ValidBookingStatus(BookingCancelled))
	assert.False(t, ValidBookingStatus(""))
	assert.False(t, ValidBookingStatus("Pending"))
	assert.False(t, ValidBookingStatus("done"))
}

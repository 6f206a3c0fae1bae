package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultHours(t *testing.T) StoreHours {
	t.Helper()
	h, err := NewStoreHours(time.UTC)
	require.NoError(t, err)
	return h
}

func clock(hh, mm int) time.Time {
	return time.Date(2026, 3, 10, hh, mm, 0, 0, time.UTC)
}

func TestStoreHours_Status(t *testing.T) {
	h := defaultHours(t)

	tests := []struct {
		name    string
		now     time.Time
		open    bool
		message string
		nextAt  time.Time
	}{
		{"before lunch", clock(11, 59), false, "Opens at 12:00 PM", clock(12, 0)},
		{"lunch opens", clock(12, 0), true, "", time.Time{}},
		{"lunch last minute", clock(15, 29), true, "", time.Time{}},
		{"lunch closes", clock(15, 30), false, "Opens at 7:00 PM", clock(19, 0)},
		{"afternoon gap", clock(18, 59), false, "Opens at 7:00 PM", clock(19, 0)},
		{"dinner opens", clock(19, 0), true, "", time.Time{}},
		{"late dinner", clock(23, 59), true, "", time.Time{}},
		{"after midnight", clock(0, 30), false, "Opens at 12:00 PM", clock(12, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := h.Status(tt.now)
			assert.Equal(t, tt.open, s.IsOpen)
			assert.Equal(t, tt.message, s.NextOpenMessage)
			assert.True(t, tt.nextAt.Equal(s.NextOpenAt), "next open %v, want %v", s.NextOpenAt, tt.nextAt)
		})
	}
}

func TestStoreHours_NextBoundary(t *testing.T) {
	h := defaultHours(t)

	assert.Equal(t, clock(12, 0), h.NextBoundary(clock(10, 0)))
	assert.Equal(t, clock(15, 30), h.NextBoundary(clock(12, 0)))
	assert.Equal(t, clock(19, 0), h.NextBoundary(clock(16, 0)))
	assert.Equal(t, clock(0, 0).AddDate(0, 0, 1), h.NextBoundary(clock(20, 0)))
	assert.Equal(t, clock(12, 0), h.NextBoundary(clock(0, 0)))
}

func TestStoreHours_LocalTimezone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	h, err := NewStoreHours(ist)
	require.NoError(t, err)

	// 07:00 UTC is 12:30 IST
	assert.True(t, h.Status(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)).IsOpen)
	assert.False(t, h.Status(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)).IsOpen)
}

func TestNewStoreHours_RejectsBadWindows(t *testing.T) {
	_, err := NewStoreHours(time.UTC, Window{Open: 600, Close: 600})
	assert.Error(t, err)

	_, err = NewStoreHours(time.UTC, Window{Open: 600, Close: 900}, Window{Open: 800, Close: 1000})
	assert.Error(t, err)
}

func TestParseClockTime(t *testing.T) {
	c, err := ParseClockTime("15:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(930), c)
	assert.Equal(t, "3:30 PM", c.Label())

	c, err = ParseClockTime("24:00")
	require.NoError(t, err)
	assert.Equal(t, "12:00 AM", c.Label())

	for _, bad := range []string{"noon", "25:00", "12:75", "12"} {
		_, err := ParseClockTime(bad)
		assert.Error(t, err, bad)
	}
}

func TestStoreStatus_Banner(t *testing.T) {
	assert.Equal(t, "Open now — Orders accepted", StoreStatus{IsOpen: true}.Banner())
	assert.Equal(t, "Closed now — Opens at 7:00 PM", StoreStatus{NextOpenMessage: "Opens at 7:00 PM"}.Banner())
}

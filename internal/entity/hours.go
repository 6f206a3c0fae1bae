package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// ClockTime is a minute of the day; 24:00 (1440) is allowed as a closing edge.
type ClockTime int

func ParseClockTime(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("clock time %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("clock time %q: %w", s, err)
	}
	c := ClockTime(h*60 + m)
	if h < 0 || m < 0 || m > 59 || c > minutesPerDay {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return c, nil
}

// Label renders the time the way the storefront prints it, e.g. "7:00 PM".
func (c ClockTime) Label() string {
	h, m := int(c)/60%24, int(c)%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// Window is a half-open service interval [Open, Close).
type Window struct {
	Open  ClockTime
	Close ClockTime
}

func (w Window) contains(m ClockTime) bool { return m >= w.Open && m < w.Close }

// StoreHours answers whether the kitchen takes orders at a given instant.
type StoreHours struct {
	windows  []Window
	location *time.Location
}

// DefaultWindows are lunch 12:00-15:30 and dinner 19:00-24:00.
var DefaultWindows = []Window{
	{Open: 12 * 60, Close: 15*60 + 30},
	{Open: 19 * 60, Close: 24 * 60},
}

func NewStoreHours(loc *time.Location, windows ...Window) (StoreHours, error) {
	if loc == nil {
		loc = time.Local
	}
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	ws := append([]Window(nil), windows...)
	sort.Slice(ws, func(i, j int) bool { return ws[i].Open < ws[j].Open })
	for i, w := range ws {
		if w.Open >= w.Close {
			return StoreHours{}, fmt.Errorf("window %s-%s is empty", w.Open.Label(), w.Close.Label())
		}
		if i > 0 && w.Open < ws[i-1].Close {
			return StoreHours{}, fmt.Errorf("window %s overlaps previous window", w.Open.Label())
		}
	}
	return StoreHours{windows: ws, location: loc}, nil
}

func (h StoreHours) Location() *time.Location { return h.location }

func (h StoreHours) IsZero() bool { return len(h.windows) == 0 }

type StoreStatus struct {
	IsOpen          bool      `json:"isOpen"`
	NextOpenMessage string    `json:"nextOpenMessage,omitempty"`
	NextOpenAt      time.Time `json:"nextOpenAt,omitzero"`
}

// Banner is the one-line status the storefront shows.
func (s StoreStatus) Banner() string {
	if s.IsOpen {
		return "Open now — Orders accepted"
	}
	return "Closed now — " + s.NextOpenMessage
}

func (h StoreHours) Status(now time.Time) StoreStatus {
	t := now.In(h.location)
	m := ClockTime(t.Hour()*60 + t.Minute())
	for _, w := range h.windows {
		if w.contains(m) {
			return StoreStatus{IsOpen: true}
		}
	}

	day := midnight(t)
	next := h.windows[0].Open
	for _, w := range h.windows {
		if w.Open > m {
			next = w.Open
			return StoreStatus{NextOpenMessage: "Opens at " + next.Label(), NextOpenAt: at(day, next)}
		}
	}
	return StoreStatus{NextOpenMessage: "Opens at " + next.Label(), NextOpenAt: at(day.AddDate(0, 0, 1), next)}
}

// NextBoundary is the next instant strictly after now at which the open or
// closed state may change.
func (h StoreHours) NextBoundary(now time.Time) time.Time {
	t := now.In(h.location)
	day := midnight(t)
	for _, w := range h.windows {
		for _, edge := range []ClockTime{w.Open, w.Close} {
			if b := at(day, edge); b.After(t) {
				return b
			}
		}
	}
	return at(day.AddDate(0, 0, 1), h.windows[0].Open)
}

func midnight(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

func at(day time.Time, c ClockTime) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, 0, int(c), 0, 0, day.Location())
}

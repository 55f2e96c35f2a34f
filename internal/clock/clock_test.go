package clock

import (
	"testing"
	"time"
)

func TestSlotOfTruncatesToHourStart(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "minutes dropped",
			in:   time.Date(2025, 6, 10, 10, 3, 0, 0, time.UTC),
			want: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "late in the hour lands on the same slot",
			in:   time.Date(2025, 6, 10, 10, 47, 12, 500, time.UTC),
			want: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "exact hour unchanged",
			in:   time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SlotOf(tc.in)
			if !got.Equal(tc.want) {
				t.Fatalf("SlotOf(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSlotOfCollapsesSameHourRequests(t *testing.T) {
	a := SlotOf(time.Date(2025, 6, 10, 10, 3, 0, 0, time.UTC))
	b := SlotOf(time.Date(2025, 6, 10, 10, 47, 0, 0, time.UTC))
	if !a.Equal(b) {
		t.Fatalf("expected 10:03 and 10:47 to map to the same slot, got %v and %v", a, b)
	}
}

func TestIsPast(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	if IsPast(now, now) {
		t.Error("an instant equal to now must not count as past")
	}
	if !IsPast(now.Add(-time.Second), now) {
		t.Error("one second ago must count as past")
	}
	if IsPast(now.Add(time.Second), now) {
		t.Error("one second ahead must not count as past")
	}
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clk := Fixed(instant)

	if got := clk.Now(); !got.Equal(instant) {
		t.Fatalf("Fixed clock returned %v, want %v", got, instant)
	}
}

func TestFormatSlot(t *testing.T) {
	slot := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	want := "Tuesday, June 10, 2025 at 15:00"
	if got := FormatSlot(slot); got != want {
		t.Fatalf("FormatSlot = %q, want %q", got, want)
	}
}

package availability

import (
	"errors"
	"testing"
	"time"
)

func day(hour, minute int) time.Time {
	return time.Date(2025, 5, 12, hour, minute, 0, 0, time.UTC)
}

func TestComputeSlots_OpenDay(t *testing.T) {
	t.Parallel()

	slots, err := ComputeSlots(Input{
		Open:         day(9, 0),
		Close:        day(12, 0),
		SlotDuration: time.Hour,
		Capacity:     1,
	})
	if err != nil {
		t.Fatalf("ComputeSlots returned error: %v", err)
	}

	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(day(9, 0)) || !slots[0].End.Equal(day(10, 0)) {
		t.Fatalf("unexpected first slot: %+v", slots[0])
	}
	if !slots[2].End.Equal(day(12, 0)) {
		t.Fatalf("last slot must end at closing time, got %+v", slots[2])
	}
}

func TestComputeSlots_SlotNeverExceedsClose(t *testing.T) {
	t.Parallel()

	slots, err := ComputeSlots(Input{
		Open:         day(9, 0),
		Close:        day(10, 30),
		SlotDuration: time.Hour,
		Capacity:     1,
	})
	if err != nil {
		t.Fatalf("ComputeSlots returned error: %v", err)
	}

	// 10:00-11:00 は閉店時刻をまたぐため生成されない。
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
}

func TestComputeSlots_BusyBlocksAtCapacity(t *testing.T) {
	t.Parallel()

	busy := []Interval{{Start: day(10, 0), End: day(11, 0)}}

	single, err := ComputeSlots(Input{
		Open:         day(9, 0),
		Close:        day(12, 0),
		SlotDuration: time.Hour,
		Capacity:     1,
		Busy:         busy,
	})
	if err != nil {
		t.Fatalf("ComputeSlots returned error: %v", err)
	}
	if len(single) != 2 {
		t.Fatalf("expected busy hour to be excluded, got %d slots", len(single))
	}
	for _, slot := range single {
		if slot.Overlaps(busy[0]) {
			t.Fatalf("slot %+v overlaps the busy interval at capacity 1", slot)
		}
	}

	double, err := ComputeSlots(Input{
		Open:         day(9, 0),
		Close:        day(12, 0),
		SlotDuration: time.Hour,
		Capacity:     2,
		Busy:         busy,
	})
	if err != nil {
		t.Fatalf("ComputeSlots returned error: %v", err)
	}
	if len(double) != 3 {
		t.Fatalf("capacity 2 must keep the partially booked hour, got %d slots", len(double))
	}
}

func TestComputeSlots_BufferSpacing(t *testing.T) {
	t.Parallel()

	slots, err := ComputeSlots(Input{
		Open:         day(9, 0),
		Close:        day(11, 0),
		SlotDuration: 45 * time.Minute,
		Buffer:       15 * time.Minute,
		Capacity:     1,
	})
	if err != nil {
		t.Fatalf("ComputeSlots returned error: %v", err)
	}

	if len(slots) != 2 {
		t.Fatalf("expected 2 slots with buffer, got %d", len(slots))
	}
	if !slots[1].Start.Equal(day(10, 0)) {
		t.Fatalf("expected second slot to start after the buffer, got %+v", slots[1])
	}
}

func TestComputeSlots_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   Input
		want error
	}{
		{
			name: "inverted window",
			in:   Input{Open: day(12, 0), Close: day(9, 0), SlotDuration: time.Hour, Capacity: 1},
			want: ErrInvalidWindow,
		},
		{
			name: "zero duration",
			in:   Input{Open: day(9, 0), Close: day(12, 0), Capacity: 1},
			want: ErrInvalidSlotDuration,
		},
		{
			name: "negative buffer",
			in:   Input{Open: day(9, 0), Close: day(12, 0), SlotDuration: time.Hour, Buffer: -time.Minute, Capacity: 1},
			want: ErrInvalidBuffer,
		},
		{
			name: "zero capacity",
			in:   Input{Open: day(9, 0), Close: day(12, 0), SlotDuration: time.Hour},
			want: ErrInvalidCapacity,
		},
		{
			name: "inverted busy interval",
			in: Input{
				Open: day(9, 0), Close: day(12, 0), SlotDuration: time.Hour, Capacity: 1,
				Busy: []Interval{{Start: day(11, 0), End: day(10, 0)}},
			},
			want: ErrInvalidBusyInterval,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ComputeSlots(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

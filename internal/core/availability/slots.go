package availability

import (
	"errors"
	"time"
)

var (
	ErrInvalidWindow       = errors.New("availability: invalid booking window")
	ErrInvalidSlotDuration = errors.New("availability: invalid slot duration")
	ErrInvalidBuffer       = errors.New("availability: invalid buffer")
	ErrInvalidCapacity     = errors.New("availability: invalid capacity")
	ErrInvalidBusyInterval = errors.New("availability: invalid busy interval")
)

// Interval は半開区間 [Start, End) を表します。
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps は 2 つの区間が重なるかどうかを返します。
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Input はスロット計算の入力です。Capacity は同一時間帯に受け付けられる
// 予約数で、通常は割り当て可能な従業員数が渡されます。
type Input struct {
	Open         time.Time
	Close        time.Time
	SlotDuration time.Duration
	Buffer       time.Duration
	Capacity     int
	Busy         []Interval
}

// ComputeSlots は営業時間内の予約可能スロットを列挙します。スロットは
// Open から SlotDuration + Buffer 刻みで進み、重なっている既存予約の数が
// Capacity 未満であれば予約可能とみなされます。
func ComputeSlots(in Input) ([]Interval, error) {
	if !in.Close.After(in.Open) {
		return nil, ErrInvalidWindow
	}
	if in.SlotDuration <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	if in.Buffer < 0 {
		return nil, ErrInvalidBuffer
	}
	if in.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	for _, busy := range in.Busy {
		if !busy.End.After(busy.Start) {
			return nil, ErrInvalidBusyInterval
		}
	}

	step := in.SlotDuration + in.Buffer
	var slots []Interval
	for start := in.Open; !start.Add(in.SlotDuration).After(in.Close); start = start.Add(step) {
		slot := Interval{Start: start, End: start.Add(in.SlotDuration)}
		if countOverlaps(slot, in.Busy) < in.Capacity {
			slots = append(slots, slot)
		}
	}

	return slots, nil
}

func countOverlaps(slot Interval, busy []Interval) int {
	count := 0
	for _, b := range busy {
		if slot.Overlaps(b) {
			count++
		}
	}
	return count
}

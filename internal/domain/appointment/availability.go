package appointment

import (
	"sort"
	"time"
)

// Interval is half-open: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Within(o Interval) bool {
	return !i.Start.Before(o.Start) && !i.End.After(o.End)
}

type TimeSlot struct {
	Start    string    `json:"start"`
	End      string    `json:"end"`
	Label    string    `json:"label"`
	StartUTC time.Time `json:"start_utc"`
	EndUTC   time.Time `json:"end_utc"`
}

// BuildSlots walks every window in steps of duration and keeps the slots
// that fit the window, start no earlier than notBefore and overlap nothing
// in busy. Slots are rendered in loc.
func BuildSlots(windows, busy []Interval, duration time.Duration, notBefore time.Time, loc *time.Location) []TimeSlot {
	slots := []TimeSlot{}
	if duration <= 0 {
		return slots
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	for _, w := range MergeWindows(windows) {
		for cur := w.Start; !cur.Add(duration).After(w.End); cur = cur.Add(duration) {
			slot := Interval{Start: cur, End: cur.Add(duration)}

			if slot.Start.Before(notBefore) {
				continue
			}
			if overlapsAny(slot, busy) {
				continue
			}

			slots = append(slots, TimeSlot{
				Start:    slot.Start.In(loc).Format(time.RFC3339),
				End:      slot.End.In(loc).Format(time.RFC3339),
				Label:    slot.Start.In(loc).Format("15:04"),
				StartUTC: slot.Start.UTC(),
				EndUTC:   slot.End.UTC(),
			})
		}
	}
	return slots
}

func overlapsAny(slot Interval, busy []Interval) bool {
	for _, b := range busy {
		if !b.Start.Before(slot.End) {
			// sorted: nothing later can overlap
			return false
		}
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}

// MergeWindows sorts windows and joins touching or overlapping ones.
func MergeWindows(windows []Interval) []Interval {
	if len(windows) == 0 {
		return nil
	}
	sorted := append([]Interval(nil), windows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	out := []Interval{sorted[0]}
	for _, w := range sorted[1:] {
		last := &out[len(out)-1]
		if !w.Start.After(last.End) {
			if w.End.After(last.End) {
				last.End = w.End
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

// Covered reports whether iv lies entirely inside one of the windows.
func Covered(iv Interval, windows []Interval) bool {
	for _, w := range MergeWindows(windows) {
		if iv.Within(w) {
			return true
		}
	}
	return false
}

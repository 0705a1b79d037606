package models

import (
	"encoding/json"
	"sort"
)

// DaySet is a set of day counts. It serializes as a sorted JSON array.
type DaySet map[int]struct{}

func NewDaySet(days ...int) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

func (s DaySet) Has(day int) bool {
	_, ok := s[day]
	return ok
}

// Add inserts day and reports whether it was newly added.
func (s DaySet) Add(day int) bool {
	if s.Has(day) {
		return false
	}
	s[day] = struct{}{}
	return true
}

// Sorted returns the members in ascending order.
func (s DaySet) Sorted() []int {
	days := make([]int, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// Clone returns an independent copy of s.
func (s DaySet) Clone() DaySet {
	c := make(DaySet, len(s))
	for d := range s {
		c[d] = struct{}{}
	}
	return c
}

func (s DaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *DaySet) UnmarshalJSON(data []byte) error {
	var days []int
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*s = NewDaySet(days...)
	return nil
}

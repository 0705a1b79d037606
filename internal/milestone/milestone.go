// Package milestone computes upcoming and newly reached day-count milestones.
//
// Three independent rule families contribute milestones: every multiple of
// 100 days, every multiple of 1000 days, and configured fun numbers. Each
// family is gated by its toggle in models.Settings.
package milestone

import (
	"fmt"
	"sort"

	"github.com/julianstephens/daycounter/internal/constants"
	"github.com/julianstephens/daycounter/internal/models"
)

// Status classifies the result of NextMilestone.
type Status int

const (
	// StatusNone means no rule is enabled or no candidate exists.
	StatusNone Status = iota
	// StatusUpcoming means Day holds the next milestone.
	StatusUpcoming
	// StatusNotStarted means the entry starts in the future.
	StatusNotStarted
)

// Next is the next unreached milestone for an entry.
type Next struct {
	Status Status
	Day    int
}

func (n Next) String() string {
	switch n.Status {
	case StatusUpcoming:
		return fmt.Sprintf("%d days", n.Day)
	case StatusNotStarted:
		return constants.MilestoneNotStarted
	default:
		return constants.MilestoneNone
	}
}

// nextMultiple returns the smallest multiple of step strictly greater than days.
func nextMultiple(days, step int) int {
	return (days/step + 1) * step
}

// NextMilestone returns the smallest milestone strictly greater than days
// across all enabled rule families.
func NextMilestone(days int, s models.Settings) Next {
	if days < 0 {
		return Next{Status: StatusNotStarted}
	}

	best := -1
	consider := func(candidate int) {
		if best < 0 || candidate < best {
			best = candidate
		}
	}

	if s.Notify100 {
		consider(nextMultiple(days, 100))
	}
	if s.Notify1000 {
		consider(nextMultiple(days, 1000))
	}
	if s.NotifyFun {
		// Stored fun numbers are expected sorted, but the scan must not rely on it.
		for _, fn := range models.NormalizeFunNumbers(s.FunNumbers) {
			if fn > days {
				consider(fn)
				break
			}
		}
	}

	if best < 0 {
		return Next{Status: StatusNone}
	}
	return Next{Status: StatusUpcoming, Day: best}
}

// NewlyReached returns, in ascending order, the milestones that days hits
// exactly and that are not yet in already. Matching is exact: a milestone
// whose day passes while nothing is checking is never reported later.
func NewlyReached(days int, s models.Settings, already models.DaySet) []int {
	if days <= 0 {
		return nil
	}

	reached := models.NewDaySet()
	if s.Notify100 && days%100 == 0 {
		reached.Add(days)
	}
	if s.Notify1000 && days%1000 == 0 {
		reached.Add(days)
	}
	if s.NotifyFun {
		for _, fn := range s.FunNumbers {
			if fn == days {
				reached.Add(days)
				break
			}
		}
	}

	var out []int
	for d := range reached {
		if !already.Has(d) {
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

package models

import (
	"github.com/julianstephens/daycounter/internal/constants"
)

// Settings represents application-wide milestone settings
type Settings struct {
	FunNumbers []int `json:"fun_numbers"` // positive, deduplicated, ascending
	Notify100  bool  `json:"notify_100"`  // notify on every multiple of 100 days
	Notify1000 bool  `json:"notify_1000"` // notify on every multiple of 1000 days
	NotifyFun  bool  `json:"notify_fun"`  // notify when the day count equals a fun number
}

// DefaultSettings returns the settings a fresh data file starts with.
func DefaultSettings() Settings {
	return Settings{
		FunNumbers: constants.DefaultFunNumbers(),
		Notify100:  constants.DefaultNotify100,
		Notify1000: constants.DefaultNotify1000,
		NotifyFun:  constants.DefaultNotifyFun,
	}
}

// Normalized returns a copy of s with FunNumbers deduplicated, sorted and
// stripped of non-positive values.
func (s Settings) Normalized() Settings {
	s.FunNumbers = NormalizeFunNumbers(s.FunNumbers)
	return s
}

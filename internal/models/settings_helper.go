package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/julianstephens/daycounter/internal/constants"
	apperrors "github.com/julianstephens/daycounter/internal/errors"
)

// ParseFunNumbers parses a comma and/or whitespace separated list of positive
// integers. The first offending token aborts the parse and is named in the error.
func ParseFunNumbers(text string) ([]int, error) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	nums := make([]int, 0, len(tokens))
	for _, token := range tokens {
		if !isDigits(token) {
			return nil, fmt.Errorf("%w: not an integer: %s", apperrors.ErrInvalidFunNumber, token)
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("%w: out of range: %s", apperrors.ErrInvalidFunNumber, token)
		}
		if n <= 0 {
			return nil, fmt.Errorf("%w: must be positive: %s", apperrors.ErrInvalidFunNumber, token)
		}
		nums = append(nums, n)
	}

	return NormalizeFunNumbers(nums), nil
}

// NormalizeFunNumbers deduplicates and sorts nums, dropping non-positive values.
func NormalizeFunNumbers(nums []int) []int {
	seen := make(map[int]struct{}, len(nums))
	out := make([]int, 0, len(nums))
	for _, n := range nums {
		if n <= 0 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// FormatFunNumbers renders fun numbers the way the settings form expects them back.
func FormatFunNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys absent from data keep their default values.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingFunNumbers:
			nums, err := ParseFunNumbers(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.FunNumbers = nums
		case constants.SettingNotify100:
			settings.Notify100 = value == "true"
		case constants.SettingNotify1000:
			settings.Notify1000 = value == "true"
		case constants.SettingNotifyFun:
			settings.NotifyFun = value == "true"
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingFunNumbers: FormatFunNumbers(NormalizeFunNumbers(settings.FunNumbers)),
		constants.SettingNotify100:  strconv.FormatBool(settings.Notify100),
		constants.SettingNotify1000: strconv.FormatBool(settings.Notify1000),
		constants.SettingNotifyFun:  strconv.FormatBool(settings.NotifyFun),
	}
}

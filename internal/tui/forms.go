package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daycounter/internal/constants"
	"github.com/julianstephens/daycounter/internal/models"
	"github.com/julianstephens/daycounter/internal/utils"
)

type EntryFormModel struct {
	Title   string
	Start   string
	Enabled bool

	// prefilled holds the Start text shown when editing began
	prefilled string
}

// startChanged reports whether the user edited the Start field.
func (fm *EntryFormModel) startChanged() bool {
	return strings.TrimSpace(fm.Start) != fm.prefilled
}

type SettingsFormModel struct {
	Notify100  bool
	Notify1000 bool
	NotifyFun  bool
	FunNumbers string
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func validateStart(s string) error {
	if _, err := utils.ParseDateTime(s); err != nil {
		return errors.New(constants.InputFormatHint)
	}
	return nil
}

func validateFunNumbers(s string) error {
	_, err := models.ParseFunNumbers(s)
	return err
}

// newEntryForm builds the add/edit form. The enabled toggle only appears
// when editing.
func newEntryForm(fm *EntryFormModel, editing bool) *huh.Form {
	title := "New Entry"
	if editing {
		title = "Edit Entry"
	}

	fields := []huh.Field{
		huh.NewInput().
			Title(title).
			Description("What are you counting days since?").
			Value(&fm.Title).
			Validate(validateTitle),
		huh.NewInput().
			Title("Start").
			Description("YYYY-MM-DD HH:MM").
			Placeholder("2024-01-31 08:00").
			Value(&fm.Start).
			Validate(validateStart),
	}
	if editing {
		fields = append(fields, huh.NewConfirm().
			Title("Notifications enabled").
			Value(&fm.Enabled))
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula())
}

func newSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Notify every 100 days").
				Value(&fm.Notify100),
			huh.NewConfirm().
				Title("Notify every 1000 days").
				Value(&fm.Notify1000),
			huh.NewConfirm().
				Title("Notify on fun numbers").
				Value(&fm.NotifyFun),
			huh.NewText().
				Title("Fun numbers").
				Description("Positive integers separated by commas or spaces").
				Value(&fm.FunNumbers).
				Validate(validateFunNumbers),
		),
	).WithTheme(huh.ThemeDracula())
}

func entryFormFrom(e models.Entry) *EntryFormModel {
	start := e.Start.Local().Format(constants.DateTimeFormat)
	return &EntryFormModel{
		Title:     e.Title,
		Start:     start,
		Enabled:   e.Enabled,
		prefilled: start,
	}
}

func settingsFormFrom(s models.Settings) *SettingsFormModel {
	return &SettingsFormModel{
		Notify100:  s.Notify100,
		Notify1000: s.Notify1000,
		NotifyFun:  s.NotifyFun,
		FunNumbers: models.FormatFunNumbers(s.FunNumbers),
	}
}

package settings

import (
	"fmt"

	"github.com/julianstephens/daycounter/internal/cli"
	"github.com/julianstephens/daycounter/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	FunNumbers *string `help:"Fun numbers, comma or space separated (replaces the current list)."`
	Notify100  *bool   `name:"notify-100" help:"Notify every 100 days."`
	Notify1000 *bool   `name:"notify-1000" help:"Notify every 1000 days."`
	NotifyFun  *bool   `help:"Notify on fun numbers."`
	Reset      bool    `help:"Restore default settings."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		printSettings(settings)
		return nil
	}

	updated := false
	if c.Reset {
		settings = models.DefaultSettings()
		updated = true
	}
	if c.FunNumbers != nil {
		nums, err := models.ParseFunNumbers(*c.FunNumbers)
		if err != nil {
			return err
		}
		settings.FunNumbers = nums
		updated = true
	}
	if c.Notify100 != nil {
		settings.Notify100 = *c.Notify100
		updated = true
	}
	if c.Notify1000 != nil {
		settings.Notify1000 = *c.Notify1000
		updated = true
	}
	if c.NotifyFun != nil {
		settings.NotifyFun = *c.NotifyFun
		updated = true
	}

	if !updated {
		printSettings(settings)
		return nil
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("✓ Settings saved.")
	return nil
}

func printSettings(s models.Settings) {
	fmt.Println("Current Settings:")
	fmt.Printf("  Notify every 100 days:  %v\n", s.Notify100)
	fmt.Printf("  Notify every 1000 days: %v\n", s.Notify1000)
	fmt.Printf("  Notify fun numbers:     %v\n", s.NotifyFun)
	if len(s.FunNumbers) == 0 {
		fmt.Println("  Fun numbers:            (none)")
		return
	}
	fmt.Printf("  Fun numbers:            %s\n", models.FormatFunNumbers(s.FunNumbers))
}

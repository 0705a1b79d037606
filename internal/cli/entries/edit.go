package entries

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daycounter/internal/cli"
	"github.com/julianstephens/daycounter/internal/utils"
)

type EditCmd struct {
	Entry   string  `arg:"" help:"Row number from list, entry ID, or unique ID prefix."`
	Title   *string `help:"New title."`
	Start   *string `help:"New start date/time."`
	Enable  bool    `help:"Enable notifications for the entry." xor:"state"`
	Disable bool    `help:"Disable notifications for the entry." xor:"state"`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.ResolveEntry(c.Entry)
	if err != nil {
		return err
	}

	updated := false
	if c.Title != nil {
		entry.Title = strings.TrimSpace(*c.Title)
		updated = true
	}
	if c.Start != nil {
		start, err := utils.ParseDateTime(*c.Start)
		if err != nil {
			return err
		}
		entry.Start = start
		updated = true
	}
	if c.Enable || c.Disable {
		entry.Enabled = c.Enable
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --title, --start, --enable or --disable.")
		return nil
	}

	if err := ctx.Store.UpdateEntry(entry); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	fmt.Printf("✓ Updated: %s\n", entry.Title)
	return nil
}

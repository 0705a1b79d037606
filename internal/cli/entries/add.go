package entries

import (
	"fmt"

	"github.com/julianstephens/daycounter/internal/cli"
	"github.com/julianstephens/daycounter/internal/utils"
)

type AddCmd struct {
	Title string `arg:"" help:"What you are counting days since."`
	Start string `arg:"" help:"Start date/time: YYYY-MM-DD, YYYY-MM-DD HH:MM or YYYY-MM-DD HH:MM:SS (local time)."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	start, err := utils.ParseDateTime(c.Start)
	if err != nil {
		return err
	}

	entry, err := ctx.Store.AddEntry(c.Title, start)
	if err != nil {
		return fmt.Errorf("cannot add entry: %w", err)
	}

	fmt.Printf("✓ Added: %s (since %s)\n", entry.Title, utils.FormatDateForDisplay(entry.Start))
	fmt.Printf("  ID: %s\n", entry.ID)
	return nil
}

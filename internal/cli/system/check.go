package system

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daycounter/internal/cli"
	"github.com/julianstephens/daycounter/internal/notifier"
)

type CheckCmd struct {
	DryRun bool `help:"Print what would be notified without sending or recording anything."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	now := time.Now()
	tr := ctx.Tracker()

	if c.DryRun {
		pending, err := tr.Pending(now)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("No milestones reached.")
			return nil
		}
		for _, p := range pending {
			title, body := notifier.Message(p.Entry, p.Days[len(p.Days)-1], now)
			fmt.Printf("[DryRun] %s: %s\n", title, body)
		}
		return nil
	}

	fired, err := tr.Tick(now)
	for _, f := range fired {
		fmt.Printf("✓ %s reached %s\n", f.Entry.Title, formatDays(f.Days))
	}
	if err != nil {
		return err
	}
	if len(fired) == 0 {
		fmt.Println("No milestones reached.")
	}
	return nil
}

func formatDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ", ") + " days"
}

package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/daycounter/internal/cli"
	"github.com/julianstephens/daycounter/internal/constants"
	"github.com/julianstephens/daycounter/internal/tracker"
)

type WatchCmd struct {
	Interval time.Duration `help:"How often to check for milestones." default:"1s"`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	if c.Interval <= 0 {
		c.Interval = constants.TickInterval
	}

	entries, err := ctx.Store.ListEntries()
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %d entries (data: %s). Press Ctrl+C to stop.\n", len(entries), ctx.Store.GetConfigPath())
	return ctx.Tracker().Run(runCtx, c.Interval, func(now time.Time, fired []tracker.Fired) {
		for _, f := range fired {
			fmt.Printf("%s  %s reached %s\n", now.Format(constants.DateTimeFormat), f.Entry.Title, formatDays(f.Days))
		}
	})
}

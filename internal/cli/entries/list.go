package entries

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/daycounter/internal/cli"
	"github.com/julianstephens/daycounter/internal/constants"
	"github.com/julianstephens/daycounter/internal/milestone"
	"github.com/julianstephens/daycounter/internal/tracker"
)

type ListCmd struct {
	IDs bool `help:"Show full entry IDs."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	rows, err := ctx.Tracker().Rows(time.Now())
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(rows) == 0 {
		fmt.Println("No entries yet. Add one with: " + constants.BinaryName + " add <title> <start>")
		return nil
	}

	_, _ = fmt.Fprintln(color.Output, renderTable(rows, c.IDs))
	return nil
}

func renderTable(rows []tracker.Row, showIDs bool) *uitable.Table {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	soon := color.New(color.FgHiYellow)

	tbl := uitable.New()
	tbl.Separator = "  "

	header := []interface{}{bold.Sprint("#"), bold.Sprint("Title"), bold.Sprint("Start"), bold.Sprint("Elapsed"), bold.Sprint("Days"), bold.Sprint("Next Milestone")}
	if showIDs {
		header = append(header, bold.Sprint("ID"))
	}
	tbl.AddRow(header...)

	for i, r := range rows {
		next := r.Next.String()
		if r.Next.Status == milestone.StatusUpcoming && r.Next.Day-r.Days <= 7 {
			next = soon.Sprint(next)
		}

		cells := []interface{}{strconv.Itoa(i + 1), r.Entry.Title, r.Start, r.Elapsed, strconv.Itoa(r.Days), next}
		if showIDs {
			cells = append(cells, r.Entry.ID)
		}
		if !r.Entry.Enabled {
			for j, cell := range cells {
				cells[j] = faint.Sprint(cell)
			}
			cells[1] = faint.Sprint(r.Entry.Title + " (disabled)")
		}
		tbl.AddRow(cells...)
	}
	tbl.RightAlign(0)
	tbl.RightAlign(4)
	return tbl
}

package entries

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/daycounter/internal/cli"
)

// stdin is swapped in tests
var stdin io.Reader = os.Stdin

type DeleteCmd struct {
	Entry string `arg:"" help:"Row number from list, entry ID, or unique ID prefix."`
	Yes   bool   `short:"y" help:"Delete without asking for confirmation."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.ResolveEntry(c.Entry)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Printf("Delete %q? [y/N]: ", entry.Title)
		response, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeleteEntry(entry.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	fmt.Printf("✓ Deleted: %s\n", entry.Title)
	return nil
}

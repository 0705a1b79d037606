package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/daycounter/internal/backup"
	"github.com/julianstephens/daycounter/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Reset to defaults. The existing data file is backed up first."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dataPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dataPath); err == nil {
			backupPath, err := backup.NewManager(dataPath).CreateBackup()
			if err != nil {
				return fmt.Errorf("refusing to reset without a backup: %w", err)
			}
			fmt.Printf("Backed up existing data to: %s\n", filepath.Base(backupPath))

			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing data file: %w", err)
			}
			if err := os.Remove(dataPath); err != nil {
				return fmt.Errorf("failed to delete existing data file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing data file: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized daycounter storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

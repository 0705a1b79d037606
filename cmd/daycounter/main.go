package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mitchellh/go-homedir"

	"github.com/julianstephens/daycounter/internal/cli"
	"github.com/julianstephens/daycounter/internal/cli/backups"
	"github.com/julianstephens/daycounter/internal/cli/entries"
	"github.com/julianstephens/daycounter/internal/cli/settings"
	"github.com/julianstephens/daycounter/internal/cli/system"
	"github.com/julianstephens/daycounter/internal/constants"
	apperrors "github.com/julianstephens/daycounter/internal/errors"
	"github.com/julianstephens/daycounter/internal/logger"
	"github.com/julianstephens/daycounter/internal/notifier"
	"github.com/julianstephens/daycounter/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Data    string `help:"Data file path. A .db extension selects SQLite storage, anything else JSON." type:"string" default:"${default_path}" env:"DAYCOUNTER_DATA"`
	Debug   bool   `help:"Log debug output to stderr as well as the log file." env:"DAYCOUNTER_DEBUG"`

	Init  system.InitCmd  `cmd:"" help:"Initialize daycounter storage."`
	Tui   system.TuiCmd   `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Watch system.WatchCmd `cmd:"" help:"Run headless and send milestone notifications until interrupted."`
	Check system.CheckCmd `cmd:"" help:"Send any milestone notifications due now and exit."`

	Add    entries.AddCmd    `cmd:"" help:"Add a new entry."`
	List   entries.ListCmd   `cmd:"" help:"List entries with elapsed time and next milestone."`
	Edit   entries.EditCmd   `cmd:"" help:"Edit an existing entry."`
	Delete entries.DeleteCmd `cmd:"" help:"Delete an entry."`

	Settings settings.SettingsCmd `cmd:"" help:"Show or change milestone settings."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage data file backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.BinaryName),
		kong.Description("Count the days since the things that matter and celebrate the milestones."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"default_path": constants.DefaultPath,
		},
	)

	dataPath, err := homedir.Expand(CLI.Data)
	if err != nil {
		apperrors.Fatalf("invalid data path %q: %v", CLI.Data, err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(dataPath),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	store := storage.NewProvider(dataPath)
	defer store.Close()

	appCtx := &cli.Context{
		Store:    store,
		Notifier: notifier.NewDefault(os.Stderr),
	}

	// init creates or resets the file and backups copy it raw, so neither
	// needs the data loaded
	command := ctx.Command()
	if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "backup") {
		if err := store.Load(); err != nil {
			store.Close()
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

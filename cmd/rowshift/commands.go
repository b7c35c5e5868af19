package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/rowshift/internal/config"
	"github.com/jask/rowshift/internal/database"
	"github.com/jask/rowshift/internal/database/repository"
	"github.com/jask/rowshift/internal/table"
	"github.com/jask/rowshift/internal/tui"
)

type options struct {
	configPath string
	dbPath     string
	cfg        config.Config
}

func (o *options) load() error {
	if o.configPath != "" {
		if err := os.Setenv("ROWSHIFT_CONFIG", o.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	o.cfg = cfg
	return nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "rowshift",
		Short: "Select and reorder table rows in the terminal.",
		Long: `Browse stored tables, select rows with the mouse or keyboard and move
them around by dragging the grip column or with the arrow keys.

Row order changes live for the session only; added rows are stored.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts.cfg)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $HOME/.config/rowshift/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database file, overrides database.path")

	addTables(cmd, opts)
	addRows(cmd, opts)
	addConfig(cmd, opts)
	return cmd
}

func addTables(topLevel *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List stored tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			infos, err := repository.NewRowRepo(db).Tables(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tables: %w", err)
			}
			printTables(cmd.OutOrStdout(), infos)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addRows(topLevel *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "rows <table>",
		Short: "Print the rows of a table with their capabilities",
		Example: `
rowshift rows playlist
ROWSHIFT_ROWS_NOT_DRAGGABLE=nodrag,pinned rowshift rows backlog
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			tbl, err := loadTable(cmd.Context(), repository.NewRowRepo(db), opts.cfg, args[0])
			if err != nil {
				return err
			}
			printRows(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addConfig(topLevel *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config and keybinding files",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective config and key bindings to disk",
		Long: `Writes config.toml with the settings currently in effect (defaults, file,
ROWSHIFT_ env and flags) and keybindings.toml with every binding, so both
can be edited by hand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, keysPath := config.Path(), config.KeybindingsPath()
			if !force {
				for _, p := range []string{cfgPath, keysPath} {
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s already exists, use --force to overwrite", p)
					}
				}
			}

			keys := tui.NewKeyRegistry()
			overrides, err := config.LoadKeybindings(keysPath)
			if err != nil {
				return err
			}
			if err := keys.ApplyKeybindingConfig(overrides); err != nil {
				return fmt.Errorf("%s: %w", keysPath, err)
			}

			if err := config.Save(opts.cfg); err != nil {
				return err
			}
			if err := config.SaveKeybindings(keysPath, keys.ExportKeybindingConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\nwrote %s\n", cfgPath, keysPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.AddCommand(initCmd)
	topLevel.AddCommand(cmd)
}

// openDB prepares the database: directory, schema and demo tables.
func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return db, nil
}

func loadTable(ctx context.Context, repo *repository.RowRepo, cfg config.Config, name string) (*table.Table, error) {
	recs, err := repo.Rows(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if len(recs) == 0 {
		infos, err := repo.Tables(ctx)
		if err != nil {
			return nil, err
		}
		found := false
		for _, info := range infos {
			found = found || info.Name == name
		}
		if !found {
			return nil, fmt.Errorf("no table named %q", name)
		}
	}
	rows := make([]table.Row, 0, len(recs))
	for _, rec := range recs {
		r, err := rec.TableRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	filters, err := cfg.Filters()
	if err != nil {
		return nil, err
	}
	return table.New(name, rows, table.Options{Filters: filters, Behavior: cfg.TableBehavior()}), nil
}

func runTUI(ctx context.Context, cfg config.Config) error {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	keys := tui.NewKeyRegistry()
	overrides, err := config.LoadKeybindings(config.KeybindingsPath())
	if err != nil {
		return err
	}
	if err := keys.ApplyKeybindingConfig(overrides); err != nil {
		return fmt.Errorf("%s: %w", config.KeybindingsPath(), err)
	}

	app, err := tui.New(ctx, cfg, repository.NewRowRepo(db), keys)
	if err != nil {
		return err
	}

	// The alt screen owns the terminal; log to a file or nowhere.
	if cfg.Debug.LogFile != "" {
		f, err := tea.LogToFile(cfg.Debug.LogFile, "rowshift")
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("start db=%s sensitivity=%d gutter=%d handles=%s/%s",
		cfg.Database.Path, cfg.Behavior.DragSensitivity, cfg.Behavior.AutoscrollGutter, cfg.Handles.Select, cfg.Handles.Drag)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

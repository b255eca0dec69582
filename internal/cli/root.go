package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/licenseprep/curricula/internal/config"
	"github.com/licenseprep/curricula/internal/store"
	"github.com/licenseprep/curricula/pkg/logger"
)

// app carries state shared across subcommands, resolved once in the
// root's PersistentPreRunE.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func NewRootCommand() *cobra.Command {
	var (
		cfgPath string
		verbose bool
	)
	a := &app{}

	root := &cobra.Command{
		Use:   "curricula",
		Short: "Insurance licensing curriculum pipeline and study tools",
		Long: `curricula ingests insurance pre-licensing course documents (DOCX, HTML)
into a structured curriculum store: tracks, modules, lessons, retrieval
chunks, guided checkpoints, question banks, practice exams, and
spaced-repetition flashcards.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if verbose {
				cfg.LogMode = "dev"
			}
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: config.yaml if present)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(
		newImportCommand(a),
		newInspectCommand(a),
		newReviewCommand(a),
		newGenerateCommand(a),
		newVersionCommand(a),
	)
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return config.Load("config.yaml")
	}
	return config.Default(), nil
}

func (a *app) openStore() (*store.Store, error) {
	st, err := store.Open(a.cfg.Database.Driver, a.cfg.Database.DSN, a.log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

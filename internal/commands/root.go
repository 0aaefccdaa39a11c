package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-parser/internal/buildinfo"
	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/history"
	"github.com/insightdelivered/statement-parser/internal/logger"
)

// env is the state every subcommand shares once flags are parsed.
type env struct {
	cfg *config.Config
	log zerolog.Logger
}

// openHistory opens the run history when it is enabled. The returned close
// function is never nil.
func (e *env) openHistory(force bool) (*history.Store, func(), error) {
	if !force && !e.cfg.History.Enabled {
		return nil, func() {}, nil
	}
	store, err := history.Open(e.cfg.History.DBPath)
	if err != nil {
		return nil, func() {}, err
	}
	return store, func() { store.Close() }, nil
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	e := &env{}
	var cfgPath, logLevel string

	rootCmd := &cobra.Command{
		Use:   "statement-parser",
		Short: "Convert bank statements into transaction records",
		Long: `Converts bank statement PDFs from Malaysian and UK banks into structured
CSV or JSON for analysis.

Supported banks: maybank, maybank-islamic, public-bank, cimb, bank-islam,
agrobank, ambank, rhb, metro, hsbc, barclays.`,
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.NewWithOptions(cmd.ErrOrStderr(), logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
			cmd.SetContext(logger.WithContext(cmd.Context(), e.log))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newConvertCommand(e),
		newServeCommand(e),
		newBanksCommand(),
		newDetectCommand(),
		newHistoryCommand(e),
	)

	return rootCmd
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/simpleshop/metrics"
	"github.com/arthur-debert/simpleshop/permission"
	"github.com/arthur-debert/simpleshop/shop"
)

const defaultDocument = "categories.json"

// CLI is the simpleshop command tree together with the collaborators each
// run shares: configuration, logging, metrics and the permission registry
// the shop is synced to.
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
	out       io.Writer
	errOut    io.Writer

	logger    *slog.Logger
	logCloser io.Closer
	promReg   *prometheus.Registry
	metrics   *metrics.Metrics
	registry  *permission.MemoryRegistry
}

// NewCLI creates the command tree writing to out and errOut
func NewCLI(out, errOut io.Writer) *CLI {
	cli := &CLI{
		viperInst: viper.New(),
		out:       out,
		errOut:    errOut,
	}

	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

// setupViperConfig wires .env, config files and SIMPLESHOP_* variables
func (cli *CLI) setupViperConfig() {
	// .env only fills variables that are not already set
	_ = godotenv.Load()

	if configFile := os.Getenv("SIMPLESHOP_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		// json or yaml, whichever is found first
		cli.viperInst.SetConfigName("simpleshop")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.simpleshop")
	}

	cli.viperInst.AutomaticEnv()
	cli.viperInst.SetEnvPrefix("SIMPLESHOP")
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cli.viperInst.SetDefault("document", defaultDocument)
	cli.viperInst.SetDefault("log-level", "warn")
	cli.viperInst.SetDefault("format", "table")

	_ = cli.viperInst.ReadInConfig()
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "simpleshop",
		Short: "Manage a shop catalog of categories, sub-categories and items",
		Long: `simpleshop edits the JSON document a shop reads its catalog from.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (SIMPLESHOP_*, also read from .env)
3. Configuration file (SIMPLESHOP_CONFIG, ./simpleshop.{json,yaml}, ~/.simpleshop/)

Examples:
  simpleshop category add "Building Blocks" --priority 1
  simpleshop subcategory add building_blocks "Wooden Blocks" --hidden
  simpleshop item add building_blocks/wooden_blocks "Oak Log" --buy 4 --sell 1
  simpleshop category list --as simpleshop.category.vip
  simpleshop export --format yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.viperInst.BindPFlags(cli.rootCmd.PersistentFlags()); err != nil {
				return err
			}

			logger, closer, err := initLogging(cli.viperInst.GetString("log-level"))
			if err != nil {
				// Logging is best effort; the command still runs
				fmt.Fprintf(cli.errOut, "Warning: %v\n", err)
				logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			}
			cli.logger = logger
			cli.logCloser = closer

			cli.promReg = prometheus.NewRegistry()
			cli.metrics = metrics.New(cli.promReg)
			cli.registry = permission.NewMemoryRegistry()
			return nil
		},

		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !cli.viperInst.GetBool("metrics") {
				return nil
			}
			return cli.writeMetrics()
		},
	}

	flags := cli.rootCmd.PersistentFlags()
	flags.StringP("document", "d", defaultDocument, "path to the shop document")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringP("format", "f", "table", "output format (table, json, yaml)")
	flags.Bool("metrics", false, "print collected metrics after the command")
}

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newCategoryCommand(),
		cli.newSubCategoryCommand(),
		cli.newItemCommand(),
		cli.newShowCommand(),
		cli.newExportCommand(),
		cli.newValidateCommand(),
		cli.newPermissionsCommand(),
	)
}

// Execute runs the command line args
func (cli *CLI) Execute(args []string) error {
	cli.rootCmd.SetArgs(args)
	cli.rootCmd.SetOut(cli.out)
	cli.rootCmd.SetErr(cli.errOut)

	err := cli.rootCmd.Execute()
	if cli.logCloser != nil {
		_ = cli.logCloser.Close()
		cli.logCloser = nil
	}
	return err
}

// openShop loads the configured document
func (cli *CLI) openShop(operation string) (*shop.Manager, error) {
	path := cli.viperInst.GetString("document")
	if path == "" {
		return nil, &CLIError{
			Operation:   operation,
			Cause:       "no shop document configured",
			Suggestions: []string{CommonSuggestions.CheckDocument},
		}
	}

	m, err := shop.New(path,
		shop.WithLogger(cli.logger),
		shop.WithMetrics(cli.metrics),
		shop.WithRegistry(cli.registry),
	)
	if err != nil {
		return nil, NewShopError(operation, err)
	}
	return m, nil
}

func (cli *CLI) format() string {
	return cli.viperInst.GetString("format")
}

// writeMetrics dumps every collected metric in the Prometheus text format
func (cli *CLI) writeMetrics() error {
	families, err := cli.promReg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(cli.out, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

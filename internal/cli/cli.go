// Package cli wires the dwipe command line to the collector, the batch
// runner and the report printer.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dwipe/internal/batch"
	"dwipe/internal/collector"
	"dwipe/internal/config"
	"dwipe/internal/logging"
	"dwipe/internal/report"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError is a bad invocation: an unknown flag, an invalid value, a
// missing FILE argument or an unusable config file. No file is touched.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// errFailed signals that at least one path failed. Every failure has
// already been printed when it is returned.
var errFailed = errors.New("one or more paths failed")

type options struct {
	configPath string
	verbose    int
	rounds     int
	blockSize  int
	jobs       int
	zero       bool
	recursive  bool
	remove     bool
	shapes     bool
	seed       uint64
}

// NewRootCmd returns the dwipe command.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   config.APP_NAME + " [flags] FILE...",
		Short: "Overwrite files in place with printable junk",
		Long: `dwipe overwrites every byte of each FILE with pseudo-random characters
from a small ASCII-art alphabet, optionally after a zero-fill pass, for the
requested number of rounds. Files keep their length and are left in place
unless --remove is given.

Defaults can be set in ` + "`$XDG_CONFIG_HOME/dwipe/config.yaml`" + `; flags given on
the command line take precedence.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("missing file operand")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	cmd.SetVersionTemplate(config.APP_NAME + " {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.BoolP("version", "V", false, "print version and exit")
	flags.CountVarP(&opts.verbose, "verbose", "v", "print progress lines (-vv also enables debug logging)")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "wipe the files of directories recursively")
	flags.BoolVarP(&opts.zero, "zero", "z", false, "overwrite with zeros before the random rounds")
	flags.BoolVarP(&opts.remove, "remove", "u", false, "truncate, rename and delete files after wiping")
	flags.BoolVarP(&opts.shapes, "shapes", "s", false, "fill with whole ASCII-art shapes")
	flags.IntVarP(&opts.rounds, "rounds", "n", config.DefaultRounds, "number of random overwrite rounds")
	flags.IntVarP(&opts.blockSize, "block-size", "b", config.DefaultBlockSizeMB, "block size in MB")
	flags.IntVarP(&opts.jobs, "jobs", "j", config.DefaultJobs, "number of files wiped in parallel")
	flags.StringVar(&opts.configPath, "config", "", "read defaults from this config file")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for the pattern generator")
	_ = flags.MarkHidden("seed")

	return cmd
}

// Execute runs cmd and maps the outcome to an exit code. Errors are
// written to the command's stderr.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, errFailed) {
		return ExitFailure
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\nTry '%s --help' for more information.\n",
			config.APP_NAME, err, config.APP_NAME)
		return ExitUsage
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", config.APP_NAME, err)
	return ExitFailure
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := loadConfig(cmd.Flags(), opts)
	if err != nil {
		return &UsageError{Err: err}
	}

	logger := logging.GetDefault()
	if cfg.Verbose >= 2 {
		logger.SetDebug(true)
	}
	logger.DebugObject("Configuration", cfg)

	res := collector.New(cfg.Recursive, logger).Collect(args)

	printer := report.NewPrinter(cmd.ErrOrStderr(), cfg.Verbose > 0)
	runner := batch.NewRunner(cfg, batch.Options{
		Progress:  cmd.OutOrStdout(),
		Logger:    logger,
		OnFailure: printer.Failure,
	})

	rep := runner.Run(cmd.Context(), res)
	printer.Summary(rep)

	if !rep.OK() {
		return errFailed
	}
	return nil
}

// loadConfig layers the config file over the defaults and the flags the
// user actually set over the file.
func loadConfig(flags *pflag.FlagSet, opts *options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	if flags.Changed("rounds") {
		cfg.Rounds = opts.rounds
	}
	if flags.Changed("block-size") {
		cfg.BlockSizeMB = opts.blockSize
	}
	if flags.Changed("jobs") {
		cfg.Jobs = opts.jobs
	}
	if flags.Changed("zero") {
		cfg.ZeroFirst = opts.zero
	}
	if flags.Changed("recursive") {
		cfg.Recursive = opts.recursive
	}
	if flags.Changed("remove") {
		cfg.Remove = opts.remove
	}
	if flags.Changed("shapes") {
		cfg.Shapes = opts.shapes
	}
	cfg.Verbose = opts.verbose
	cfg.Seed = opts.seed

	return cfg, cfg.Validate()
}

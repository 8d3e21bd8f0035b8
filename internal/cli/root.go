package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/spf13/cobra"

	"github.com/Pradene/lex/internal/generator"
)

// rootCmd is a thin cobra entry point: it exists to give lexgen a
// conventional --help/--version surface, but the actual flags are
// defined and parsed by goflags in ParseArgs, the same split alterx
// uses between its cobra-less root and its goflags-driven Options.
var rootCmd = &cobra.Command{
	Use:           "lexgen [flags] <spec.l>",
	Short:         "Compile a .l lexer specification into a standalone C scanner",
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := ParseArgs(os.Args[1:])
		if err != nil {
			return err
		}

		if opts.Silent {
			gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
		} else if opts.Verbose {
			gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
		}

		return generator.Run(generator.Config{
			SpecPath:   opts.SpecPath,
			Stdout:     opts.Stdout,
			OutputPath: opts.OutputPath,
			Debug:      opts.Debug,
		})
	},
}

// Execute runs the lexgen command, printing any fatal error to stderr
// in red (spec.md §7's "first error aborts the pipeline" rule) and
// returning the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

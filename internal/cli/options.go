// Package cli wires the lexgen command line: goflags for the
// generator's named options, plus a windowed scan for the trailing
// spec-path argument, the way original_source's ArgsParser.get_file()
// takes the last argument as the file path and only inspects the rest
// for recognized flags.
package cli

import (
	"fmt"

	"github.com/projectdiscovery/goflags"
)

// Options holds every lexgen invocation's resolved settings.
type Options struct {
	SpecPath   string // last positional argument; required
	Stdout     bool   // -t: write generated C to stdout instead of a file
	OutputPath string // override for the default lex.yy.c output path
	Debug      bool   // log the compiled DFA's start state and final-state count
	Verbose    bool
	Silent     bool
}

// boolFlags and valueFlags list every recognized flag spelling, long
// and short (valueFlags being those that take a value), so
// the positional-argument scan below can skip them (and their values)
// the same way the original's windowed scan does.
var boolFlags = map[string]bool{
	"-t": true, "--stdout": true,
	"--debug": true,
	"-v": true, "--verbose": true,
	"-s": true, "--silent": true,
}

var valueFlags = map[string]bool{
	"-o": true, "--output": true,
}

// ParseArgs builds Options for a lexgen invocation. Named flags are
// defined with goflags so help text, defaults, and validation come from
// a real flag library; goflags reads them from the process command line
// (os.Args), not from args. The spec path is recovered separately from
// args (the raw arguments, excluding the program name), since goflags
// has no concept of a bare trailing positional argument.
func ParseArgs(args []string) (*Options, error) {
	opts := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("lexgen compiles a .l lexer specification into a standalone C scanner.")

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&opts.Stdout, "stdout", "t", false, "write the generated scanner to stdout instead of lex.yy.c"),
		flagSet.StringVarP(&opts.OutputPath, "output", "o", "", "output file path (default lex.yy.c)"),
	)
	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&opts.Debug, "debug", false, "log the compiled DFA's start state and final-state count before emitting"),
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose diagnostic logging"),
		flagSet.BoolVarP(&opts.Silent, "silent", "s", false, "suppress all but fatal errors"),
	)

	if err := flagSet.Parse(); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	path, err := lastPositionalArg(args)
	if err != nil {
		return nil, err
	}
	opts.SpecPath = path

	return opts, nil
}

// lastPositionalArg returns the final argument not consumed as a flag
// or a flag's value, matching spec.md §6's "the last positional
// argument is the input spec path" contract.
func lastPositionalArg(args []string) (string, error) {
	var positional string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case boolFlags[arg]:
			continue
		case valueFlags[arg]:
			i++ // skip the flag's value
		default:
			positional = arg
		}
	}
	if positional == "" {
		return "", fmt.Errorf("usage: lexgen [flags] <spec.l>")
	}
	return positional, nil
}

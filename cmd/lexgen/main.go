// Command lexgen compiles a .l lexer specification into a standalone C
// scanner, mirroring the teacher's cmd/cow-lang entry point: parse argv,
// delegate to a runner package, exit non-zero on error.
package main

import (
	"os"

	"github.com/Pradene/lex/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

// Package codegen renders a compiled DFA into a standalone C scanner,
// following original_source/src/code.rs's structure (transition table,
// accept/action dispatch, longest-match scan loop with REJECT and
// yymore support) but built with Go's io.Writer/strings.Builder idiom
// and sorted-key iteration, the way tooling/ll1's debug printers render
// their tables deterministically.
package codegen

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Pradene/lex/internal/automaton"
)

// Options controls what the emitted scanner carries over from the
// source spec file besides the compiled DFA itself.
type Options struct {
	// DefinitionsCode is pasted verbatim near the top of the file,
	// from a %{ ... %} block in the spec's definitions section.
	DefinitionsCode []string
	// Trailer is pasted verbatim at the end of the file, from the
	// spec's trailer section (typically a user-supplied main()).
	Trailer string
}

// Emit writes a complete lex.yy.c-equivalent C source file implementing
// dfa's scanner to out.
func Emit(out io.Writer, dfa *automaton.DFA, opts Options) error {
	w := &writer{out: out}

	w.header(opts.DefinitionsCode)
	w.transitionTable(dfa)
	w.acceptTable(dfa)
	w.actionDispatch(dfa)
	w.scannerRuntime()
	if opts.Trailer != "" {
		fmt.Fprintln(w.out, opts.Trailer)
	}
	if !strings.Contains(opts.Trailer, "main(") {
		w.defaultMain()
	}

	return w.err
}

type writer struct {
	out io.Writer
	err error
}

func (w *writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}

func (w *writer) header(definitions []string) {
	for _, line := range definitions {
		w.printf("%s\n", line)
	}
	w.printf("#include <stdio.h>\n")
	w.printf("#include <stdlib.h>\n")
	w.printf("#include <string.h>\n")
	w.printf("\n")
	w.printf("#define YY_BUFFER_SIZE 16384\n")
	w.printf("#define ECHO do { fwrite(yytext, 1, yyleng, stdout); fputc('\\n', stdout); } while (0)\n")
	w.printf("\n")
	w.printf("static int yy_rejected = 0;\n")
	w.printf("#define REJECT do { yy_rejected = 1; return; } while (0)\n")
	w.printf("\n")
	w.printf("static int yy_more_len = 0;\n")
	w.printf("static int yy_more_called = 0;\n")
	w.printf("#define yymore() do { yy_more_len = yyleng; yy_more_called = 1; } while (0)\n")
	w.printf("\n")
	w.printf("char *yytext;\n")
	w.printf("int yyleng;\n")
	w.printf("int yylineno = 1;\n")
	w.printf("int yycolumn = 0;\n")
	w.printf("FILE *yyin;\n")
	w.printf("\n")
	w.printf("typedef int StateID;\n")
	w.printf("\n")
}

// transitionTable emits the transition() dispatcher: one case per DFA
// state that has outgoing edges (other states fall through to the
// default), one nested case per outgoing byte, sorted for deterministic
// output across runs.
func (w *writer) transitionTable(dfa *automaton.DFA) {
	states := sortedStates(dfa.States)

	w.printf("static StateID transition(StateID state, unsigned char c) {\n")
	w.printf("    switch (state) {\n")
	for _, state := range states {
		edges := dfa.Transitions[state]
		if len(edges) == 0 {
			continue
		}
		w.printf("    case %d:\n", int(state))
		w.printf("        switch (c) {\n")
		for _, c := range sortedBytes(edges) {
			to := edges[c]
			w.printf("        case %d: /* %s */\n", int(c), describeChar(c))
			w.printf("            return %d;\n", int(to))
		}
		w.printf("        default:\n")
		w.printf("            return -1;\n")
		w.printf("        }\n")
	}
	w.printf("    default:\n")
	w.printf("        return -1;\n")
	w.printf("    }\n")
	w.printf("}\n\n")
}

// acceptTable emits is_accepting() and get_rule_priority(), the Go
// rewrite of code.rs's is_accepting/get_pattern_info pair.
func (w *writer) acceptTable(dfa *automaton.DFA) {
	states := sortedStates(dfa.States)

	w.printf("static int is_accepting(StateID state) {\n")
	w.printf("    switch (state) {\n")
	for _, state := range states {
		if dfa.Finals[state] {
			w.printf("    case %d:\n", int(state))
			w.printf("        return 1;\n")
		}
	}
	w.printf("    default:\n")
	w.printf("        return 0;\n")
	w.printf("    }\n")
	w.printf("}\n\n")

	w.printf("static int get_rule_priority(StateID state) {\n")
	w.printf("    switch (state) {\n")
	for _, state := range states {
		if act, ok := dfa.Actions[state]; ok {
			w.printf("    case %d:\n", int(state))
			w.printf("        return %d; /* %s */\n", act.Priority, act.RuleName)
		}
	}
	w.printf("    default:\n")
	w.printf("        return -1;\n")
	w.printf("    }\n")
	w.printf("}\n\n")
}

// actionDispatch emits execute_action(), pasting each rule's action
// source text verbatim, exactly as code.rs's execute_action does.
func (w *writer) actionDispatch(dfa *automaton.DFA) {
	states := sortedStates(dfa.States)

	w.printf("static void execute_action(StateID state) {\n")
	w.printf("    switch (state) {\n")
	for _, state := range states {
		if act, ok := dfa.Actions[state]; ok {
			w.printf("    case %d: { /* %s */\n", int(state), act.RuleName)
			w.printf("        %s\n", act.Text)
			w.printf("        break;\n")
			w.printf("    }\n")
		}
	}
	w.printf("    default:\n")
	w.printf("        break;\n")
	w.printf("    }\n")
	w.printf("}\n\n")
}

// defaultMain emits the fallback entry point from spec section 6: open
// argv[1] if given, else read stdin, run the scanner, exit 0. Only used
// when the spec's trailer doesn't already supply its own main().
func (w *writer) defaultMain() {
	w.printf("int main(int argc, char *argv[]) {\n")
	w.printf("    if (argc > 1) {\n")
	w.printf("        yyin = fopen(argv[1], \"r\");\n")
	w.printf("        if (!yyin) {\n")
	w.printf("            fprintf(stderr, \"Could not open %%s\\n\", argv[1]);\n")
	w.printf("            return 1;\n")
	w.printf("        }\n")
	w.printf("    } else {\n")
	w.printf("        yyin = stdin;\n")
	w.printf("    }\n")
	w.printf("    yylex();\n")
	w.printf("    return 0;\n")
	w.printf("}\n")
}

func sortedStates(states []automaton.StateID) []automaton.StateID {
	out := append([]automaton.StateID(nil), states...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedBytes(m map[byte]automaton.StateID) []byte {
	out := make([]byte, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func describeChar(c byte) string {
	switch c {
	case '\n':
		return `\n (newline)`
	case '\r':
		return `\r (carriage return)`
	case '\t':
		return `\t (tab)`
	case ' ':
		return "space"
	}
	if c < 0x20 || c == 0x7f {
		return fmt.Sprintf("ASCII 0x%02x (control)", c)
	}
	return fmt.Sprintf("'%c'", c)
}

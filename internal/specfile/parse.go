// Package specfile parses a .l lexer specification file: a
// definitions section, a rules section, and a trailer section
// separated by "%%" lines, the way original_source/src/file.rs's
// LexParser walks a lex file line by line.
package specfile

import (
	"fmt"
	"strings"
)

// Rule is one parsed, not-yet-compiled lexical rule.
type Rule struct {
	Pattern    string
	Action     string
	LineNumber int
}

// Spec is the fully parsed contents of a .l file.
type Spec struct {
	// DefinitionsCode holds the verbatim lines from a %{ ... %} block
	// in the definitions section, pasted into the emitted scanner's
	// header.
	DefinitionsCode []string
	// Macros maps a NAME to its (already macro-expanded) replacement
	// text, from "NAME value" definition lines.
	Macros map[string]string
	Rules  []Rule
	// Trailer is every line after the second "%%", pasted verbatim at
	// the end of the emitted scanner.
	Trailer string
}

// maxMacroExpansionPasses bounds repeated macro substitution so a
// self-referential or mutually-recursive set of definitions fails with
// an error instead of looping forever. original_source's expand_macros
// has no such bound (see DESIGN.md); this is a supplement.
const maxMacroExpansionPasses = 100

type section int

const (
	sectionDefinitions section = iota
	sectionRules
	sectionTrailer
)

// Parse parses the contents of a .l file (already read into memory;
// path is used only to annotate error messages).
func Parse(path, content string) (*Spec, error) {
	lines := strings.Split(content, "\n")
	p := &parser{path: path, lines: lines, macros: make(map[string]string)}
	if err := p.run(); err != nil {
		return nil, err
	}
	return &Spec{
		DefinitionsCode: p.definitionsCode,
		Macros:          p.macros,
		Rules:           p.rules,
		Trailer:         strings.TrimRight(p.trailer.String(), "\n"),
	}, nil
}

type pendingPattern struct {
	pattern    string
	lineNumber int
}

type parser struct {
	path             string
	lines            []string
	definitionsCode  []string
	macros           map[string]string
	rules            []Rule
	trailer          strings.Builder
	pending          []pendingPattern
	section          section
	lineIndex        int
}

func (p *parser) run() error {
	for p.lineIndex < len(p.lines) {
		line := strings.TrimSpace(p.lines[p.lineIndex])
		lineNumber := p.lineIndex + 1

		if line == "%%" {
			if err := p.advanceSection(); err != nil {
				return err
			}
			p.lineIndex++
			continue
		}

		if p.section != sectionTrailer && p.shouldSkip(line) {
			p.lineIndex++
			continue
		}

		var err error
		switch p.section {
		case sectionDefinitions:
			err = p.processDefinitionsLine(line, lineNumber)
		case sectionRules:
			err = p.processRulesLine(line, lineNumber)
		case sectionTrailer:
			p.trailer.WriteString(p.lines[p.lineIndex])
			p.trailer.WriteByte('\n')
		}
		if err != nil {
			return err
		}
		p.lineIndex++
	}

	return p.validateFinalState()
}

func (p *parser) advanceSection() error {
	switch p.section {
	case sectionDefinitions:
		p.section = sectionRules
	case sectionRules:
		p.section = sectionTrailer
	case sectionTrailer:
		return fmt.Errorf("%s:%d: unexpected '%%%%' in trailer section", p.path, p.lineIndex+1)
	}
	return nil
}

func (p *parser) shouldSkip(line string) bool {
	return line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#")
}

func (p *parser) processDefinitionsLine(line string, lineNumber int) error {
	if strings.HasPrefix(line, "%{") {
		return p.consumeDefinitionsCodeBlock()
	}
	return p.processDefinition(line, lineNumber)
}

func (p *parser) consumeDefinitionsCodeBlock() error {
	p.lineIndex++ // skip opening %{
	for p.lineIndex < len(p.lines) {
		line := p.lines[p.lineIndex]
		if strings.HasPrefix(strings.TrimSpace(line), "%}") {
			return nil
		}
		p.definitionsCode = append(p.definitionsCode, line)
		p.lineIndex++
	}
	return fmt.Errorf("%s: unclosed definitions code block", p.path)
}

func (p *parser) processDefinition(line string, lineNumber int) error {
	name, value, ok := strings.Cut(line, " ")
	if !ok {
		return fmt.Errorf("%s:%d: invalid definition, expected \"NAME value\"", p.path, lineNumber)
	}
	expanded, err := p.expandMacros(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s:%d: %w", p.path, lineNumber, err)
	}
	p.macros[strings.TrimSpace(name)] = expanded
	return nil
}

func (p *parser) processRulesLine(line string, lineNumber int) error {
	pattern, action, err := splitPatternAction(line)
	if err != nil {
		return fmt.Errorf("%s:%d: %w", p.path, lineNumber, err)
	}

	expandedPattern, err := p.expandMacros(pattern)
	if err != nil {
		return fmt.Errorf("%s:%d: %w", p.path, lineNumber, err)
	}

	return p.handleRuleAction(expandedPattern, action, lineNumber)
}

func (p *parser) handleRuleAction(pattern, action string, lineNumber int) error {
	if action == "|" {
		p.pending = append(p.pending, pendingPattern{pattern: pattern, lineNumber: lineNumber})
		return nil
	}

	if strings.HasPrefix(action, "{") {
		return p.processActionBlock(pattern, action, lineNumber)
	}
	return p.commitRule(pattern, action)
}

// processActionBlock accumulates lines onto action until its braces
// balance, then commits it (and every pattern chained to it via "|")
// as one rule per pattern sharing the same action text.
func (p *parser) processActionBlock(pattern, action string, lineNumber int) error {
	braceCount := strings.Count(action, "{") - strings.Count(action, "}")

	p.pending = append(p.pending, pendingPattern{pattern: pattern, lineNumber: lineNumber})
	current := p.lineIndex

	for braceCount > 0 && current < len(p.lines)-1 {
		current++
		line := strings.TrimSpace(p.lines[current])
		action += "\n" + line
		braceCount += strings.Count(line, "{") - strings.Count(line, "}")
	}

	if braceCount != 0 {
		return fmt.Errorf("%s: unclosed action block starting at line %d", p.path, lineNumber)
	}

	p.lineIndex = current
	return p.commitPendingRules(action)
}

func (p *parser) commitPendingRules(action string) error {
	for _, pending := range p.pending {
		p.rules = append(p.rules, Rule{Pattern: pending.pattern, Action: action, LineNumber: pending.lineNumber})
	}
	p.pending = nil
	return nil
}

func (p *parser) commitRule(pattern, action string) error {
	if len(p.pending) > 0 {
		if err := p.commitPendingRules(action); err != nil {
			return err
		}
	}
	p.rules = append(p.rules, Rule{Pattern: pattern, Action: action, LineNumber: p.lineIndex + 1})
	return nil
}

// expandMacros substitutes every "{NAME}" reference with its
// definition, repeating until a pass makes no further change or
// maxMacroExpansionPasses is reached (a cycle guard original_source's
// equivalent loop does not have).
func (p *parser) expandMacros(input string) (string, error) {
	result := input
	for pass := 0; pass < maxMacroExpansionPasses; pass++ {
		changed := false
		for name, value := range p.macros {
			ref := "{" + name + "}"
			if strings.Contains(result, ref) {
				result = strings.ReplaceAll(result, ref, value)
				changed = true
			}
		}
		if !changed {
			return result, nil
		}
	}
	return "", fmt.Errorf("macro expansion did not converge after %d passes (possible cycle) in %q", maxMacroExpansionPasses, input)
}

func (p *parser) validateFinalState() error {
	if len(p.pending) > 0 {
		first := p.pending[0]
		return fmt.Errorf("%s:%d: pattern without action", p.path, first.lineNumber)
	}
	return nil
}

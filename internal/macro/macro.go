// Package macro implements the assembler's macro preprocessor: a line-level state machine
// that captures `mcro NAME ... mcroend` blocks and inlines invocations of the macros they
// define, producing a single derived text artifact for the two passes to consume.
//
// The shape is grounded on the teacher assembler's Parser.Parse line-scanning loop (a
// bufio.Scanner driving a per-line dispatch with an explicit position counter), but
// reworked into an explicit two-state FSM -- OUTSIDE and CAPTURING(m) -- since macro
// capture has exactly two modes rather than the teacher's per-instruction dispatch table.
package macro

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arlovac/quad4asm/internal/lex"
)

const (
	directiveMcro    = "mcro"
	directiveMcroEnd = "mcroend"
)

// reservedNames are the 16 opcode mnemonics and the 5 directive keywords (without their
// leading dot): a macro may not shadow any of them.
var reservedNames = map[string]bool{
	"mov": true, "cmp": true, "add": true, "sub": true, "lea": true, "clr": true,
	"not": true, "inc": true, "dec": true, "jmp": true, "bne": true, "jsr": true,
	"red": true, "prn": true, "rts": true, "stop": true,
	"data": true, "string": true, "mat": true, "extern": true, "entry": true,
}

// Macro is a named, ordered sequence of source lines.
type Macro struct {
	Name string
	Body []string
}

type state int

const (
	stateOutside state = iota
	stateCapturing
)

// Preprocessor runs the macro-expansion state machine over an input stream. A zero value
// is ready to use.
type Preprocessor struct {
	state   state
	table   map[string]*Macro
	current *Macro
	line    int
	errs    []error
}

// New returns a ready-to-use Preprocessor.
func New() *Preprocessor {
	return &Preprocessor{table: make(map[string]*Macro)}
}

// Expand reads lines from in, expands macro invocations, and writes the result to out. It
// always consumes all of in and writes everything it can; validation failures (invalid
// macro name, extra tokens, an unterminated capture) are accumulated and returned as a
// single joined error rather than aborting the run early, matching the preprocessor's
// whole-run failure reporting.
func (p *Preprocessor) Expand(in io.Reader, out io.Writer) error {
	if p.table == nil {
		p.table = make(map[string]*Macro)
	}

	scanner := bufio.NewScanner(in)
	w := bufio.NewWriter(out)

	for scanner.Scan() {
		p.line++

		if err := p.processLine(scanner.Text(), w); err != nil {
			p.errs = append(p.errs, err)
		}
	}

	if err := scanner.Err(); err != nil {
		p.errs = append(p.errs, fmt.Errorf("line %d: read failed: %w", p.line, err))
	}

	if p.state == stateCapturing {
		p.errs = append(p.errs, fmt.Errorf("macro %q: missing %s", p.current.Name, directiveMcroEnd))
	}

	if err := w.Flush(); err != nil {
		p.errs = append(p.errs, fmt.Errorf("write failed: %w", err))
	}

	return p.Err()
}

// Err returns the accumulated errors from all calls to Expand on this Preprocessor, or nil
// if none occurred.
func (p *Preprocessor) Err() error {
	return errors.Join(p.errs...)
}

func (p *Preprocessor) processLine(line string, w *bufio.Writer) error {
	fields := strings.Fields(line)

	switch p.state {
	case stateCapturing:
		return p.processCapturing(line, fields)
	default:
		return p.processOutside(line, fields, w)
	}
}

func (p *Preprocessor) processOutside(line string, fields []string, w *bufio.Writer) error {
	if len(fields) == 0 {
		fmt.Fprintln(w, line)
		return nil
	}

	if fields[0] == directiveMcro {
		return p.beginCapture(fields)
	}

	if len(fields) == 1 {
		if m, ok := p.table[fields[0]]; ok {
			for _, bodyLine := range m.Body {
				fmt.Fprintln(w, bodyLine)
			}

			return nil
		}
	}

	fmt.Fprintln(w, line)

	return nil
}

func (p *Preprocessor) beginCapture(fields []string) error {
	var (
		name string
		err  error
	)

	switch {
	case len(fields) < 2:
		err = fmt.Errorf("line %d: %s: missing macro name", p.line, directiveMcro)
		name = fmt.Sprintf("<invalid@%d>", p.line)
	case len(fields) > 2:
		name = fields[1]
		err = fmt.Errorf("line %d: %s %s: extra tokens after macro name", p.line, directiveMcro, name)
	case !isValidMacroName(fields[1]):
		name = fields[1]
		err = fmt.Errorf("line %d: %s %s: invalid macro name", p.line, directiveMcro, name)
	default:
		name = fields[1]
	}

	p.current = &Macro{Name: name}
	p.table[name] = p.current
	p.state = stateCapturing

	return err
}

func (p *Preprocessor) processCapturing(line string, fields []string) error {
	if len(fields) > 0 && fields[0] == directiveMcroEnd {
		var err error
		if len(fields) > 1 {
			err = fmt.Errorf("line %d: %s: extra tokens", p.line, directiveMcroEnd)
		}

		p.state = stateOutside
		p.current = nil

		return err
	}

	p.current.Body = append(p.current.Body, line)

	return nil
}

func isValidMacroName(name string) bool {
	if reservedNames[name] {
		return false
	}

	end, ok := lex.IsSymbol(name+"\n", 0)

	return ok && end == len(name)
}

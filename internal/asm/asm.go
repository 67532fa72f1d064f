// Package asm implements the two-pass assembler for the fictional 10-bit word machine:
// label/address layout and partial encoding in the first pass, symbol resolution and
// word patching in the second, and the three base-4 output artifacts.
//
// The shape is grounded on the teacher assembler's Operation/SourceInfo design in
// internal/asm/asm.go and gen.go: a per-opcode Parse/Generate pair dispatched from a
// driver loop, annotated with source position for error reporting, and a SyntaxTable
// walked to produce machine code. Because this machine's sixteen opcodes share a
// uniform operand-count-by-opcode-range rule (unlike LC-3's per-mnemonic layouts), a
// single Order type replaces the teacher's one-Go-type-per-mnemonic family, dispatched
// through the opcode table in this file instead of a type switch.
package asm

import (
	"errors"
	"fmt"

	"github.com/arlovac/quad4asm/internal/symtab"
	"github.com/arlovac/quad4asm/internal/word"
)

// Mode identifies an operand's addressing mode, or ModeNone when the operand slot is
// unused.
type Mode int

// Addressing modes, numbered per the machine's 2-bit mode field.
const (
	ModeNone      Mode = -1
	ModeImmediate Mode = 0
	ModeDirect    Mode = 1
	ModeMatrix    Mode = 2
	ModeRegister  Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeDirect:
		return "direct"
	case ModeMatrix:
		return "matrix"
	case ModeRegister:
		return "register"
	default:
		return "none"
	}
}

// Operand is a tagged value for one instruction operand, replacing the source design's
// parallel operand/symbol_name fields with a sum type: validation becomes an exhaustive
// switch over Mode instead of checking which optional field is non-empty.
type Operand struct {
	Mode     Mode
	Value    int    // Immediate literal, or register index for ModeRegister.
	Symbol   string // Base symbol for ModeDirect and ModeMatrix.
	RegX     int    // Row-index register for ModeMatrix.
	RegY     int    // Column-index register for ModeMatrix.
}

// None reports whether the operand slot is empty.
func (o Operand) None() bool { return o.Mode == ModeNone }

// Order is one parsed instruction: its opcode, operands, and the words it was encoded
// to. SrcWordIdx/DstWordIdx index into Words to identify the exact placeholder word an
// operand's symbol reference occupies, recorded at emission time in pass one so pass
// two never needs to content-scan for an all-zero word.
type Order struct {
	Line    int
	Source  string
	Address int
	Opcode  int
	Src     Operand
	Dst     Operand
	Words   word.List

	SrcWordIdx int // -1 if Src carries no deferred symbol reference.
	DstWordIdx int
}

// opcodeInfo describes one mnemonic's encoding and operand legality.
type opcodeInfo struct {
	Name     string
	Operands int // 0, 1, or 2.
	SrcLegal [4]bool
	DstLegal [4]bool
}

// opcodes is indexed by opcode number 0..15, matching spec's mnemonic table. Legality
// arrays are indexed by Mode: [immediate, direct, matrix, register].
var opcodes = [16]opcodeInfo{
	0:  {Name: "mov", Operands: 2, SrcLegal: [4]bool{true, true, true, true}, DstLegal: [4]bool{false, true, true, true}},
	1:  {Name: "cmp", Operands: 2, SrcLegal: [4]bool{true, true, true, true}, DstLegal: [4]bool{true, true, true, true}},
	2:  {Name: "add", Operands: 2, SrcLegal: [4]bool{true, true, true, true}, DstLegal: [4]bool{false, true, true, true}},
	3:  {Name: "sub", Operands: 2, SrcLegal: [4]bool{true, true, true, true}, DstLegal: [4]bool{false, true, true, true}},
	4:  {Name: "lea", Operands: 2, SrcLegal: [4]bool{false, true, true, false}, DstLegal: [4]bool{false, true, true, true}},
	5:  {Name: "clr", Operands: 1, DstLegal: [4]bool{false, true, true, true}},
	6:  {Name: "not", Operands: 1, DstLegal: [4]bool{false, true, true, true}},
	7:  {Name: "inc", Operands: 1, DstLegal: [4]bool{false, true, true, true}},
	8:  {Name: "dec", Operands: 1, DstLegal: [4]bool{false, true, true, true}},
	9:  {Name: "jmp", Operands: 1, DstLegal: [4]bool{false, true, true, true}},
	10: {Name: "bne", Operands: 1, DstLegal: [4]bool{false, true, true, true}},
	11: {Name: "jsr", Operands: 1, DstLegal: [4]bool{false, true, true, true}},
	12: {Name: "red", Operands: 1, DstLegal: [4]bool{false, true, true, true}},
	13: {Name: "prn", Operands: 1, DstLegal: [4]bool{true, true, true, true}},
	14: {Name: "rts", Operands: 0},
	15: {Name: "stop", Operands: 0},
}

// opcodeByName resolves a mnemonic to its opcode number.
func opcodeByName(name string) (int, bool) {
	for i := range opcodes {
		if opcodes[i].Name == name {
			return i, true
		}
	}

	return 0, false
}

// ErrorKind classifies a reported diagnostic, mirroring the taxonomy of spec.md's error
// handling section (lexical / structural / semantic / I/O).
type ErrorKind int

// Error kinds.
const (
	KindLexical ErrorKind = iota
	KindStructural
	KindSemantic
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindStructural:
		return "structural"
	case KindSemantic:
		return "semantic"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// AssembleError is a single diagnostic, always carrying the source line it came from.
type AssembleError struct {
	Kind ErrorKind
	Line int
	Text string // Offending source line, if applicable.
	Msg  string
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("%d: %s: %s", e.Line, e.Kind, e.Msg)
}

func newError(kind ErrorKind, line int, text, format string, args ...any) *AssembleError {
	return &AssembleError{Kind: kind, Line: line, Text: text, Msg: fmt.Sprintf(format, args...)}
}

// ExternalRef is one use site of an external symbol, recorded during pass two.
type ExternalRef struct {
	Name    string
	Address int
}

// Assembler holds all of the mutable state for assembling one source file: the symbol
// table, the parsed instruction orders, the data words, and the external-reference
// list pass two builds while patching. Each source file must start from fresh state
// since spec.md §5 requires full state reset between files: use a new Assembler per
// file, or call Reset, which restores that state in place so one value can be reused.
type Assembler struct {
	IC int
	DC int

	Symbols *symtab.Table
	Orders  []*Order
	Data    word.List

	Externals    []ExternalRef
	EntriesFlag  bool
	MaxLineLen   int

	errs []error
}

// New returns an Assembler ready to process one source file.
func New() *Assembler {
	a := &Assembler{MaxLineLen: 80}
	a.Reset()

	return a
}

// Reset clears all per-file state, leaving MaxLineLen untouched.
func (a *Assembler) Reset() {
	a.IC = 100
	a.DC = 0
	a.Symbols = symtab.New()
	a.Orders = nil
	a.Data = nil
	a.Externals = nil
	a.EntriesFlag = false
	a.errs = nil
}

// Err returns every diagnostic accumulated so far, joined into one error, or nil.
func (a *Assembler) Err() error {
	return errors.Join(a.errs...)
}

func (a *Assembler) addError(err error) {
	a.errs = append(a.errs, err)
}

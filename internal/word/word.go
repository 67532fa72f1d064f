// Package word implements the base data types of the fictional 10-bit word machine: fixed-width
// binary words, the base-4 text encoding used for every object artifact, and the instruction bit
// layout shared by the two assembler passes.
package word

import (
	"fmt"
	"strings"
)

// Width is the number of bits in a machine word.
const Width = 10

// Kind distinguishes a data word from an instruction (code) word.
type Kind uint8

// Word kinds.
const (
	KindData Kind = iota
	KindInstruction
)

func (k Kind) String() string {
	if k == KindData {
		return "data"
	}

	return "instruction"
}

// Word is a fixed-width binary string of exactly Width characters over {'0', '1'}, together with
// the address (word index) it will be emitted at and whether it holds data or code. The zero value
// is not a valid Word; use New or Zero.
type Word struct {
	bits    string
	Address int
	Kind    Kind

	// unresolved names the symbol this word's bits still await, if any. A Word with a non-empty
	// unresolved field stands in for the placeholder described in the design notes: pass two
	// patches the Word in place rather than scanning its content for an all-zero pattern.
	unresolved string
}

// Zero returns the all-zero placeholder Word of the given kind at the given address, not yet bound
// to any symbol.
func Zero(address int, kind Kind) Word {
	return Word{bits: strings.Repeat("0", Width), Address: address, Kind: kind}
}

// New returns a Word built from an exact Width-character binary string. It panics if bits is not
// Width characters of '0'/'1' -- a programmer error, since every caller constructs bits from the
// encoding primitives in this package.
func New(bits string, address int, kind Kind) Word {
	if len(bits) != Width {
		panic(fmt.Sprintf("word: bad width: %q", bits))
	}

	for _, c := range bits {
		if c != '0' && c != '1' {
			panic(fmt.Sprintf("word: bad bit: %q", bits))
		}
	}

	return Word{bits: bits, Address: address, Kind: kind}
}

// Placeholder returns an unresolved data/code-reference Word awaiting patching in pass two. Symbol
// names the reference that pass two must look up to fill it in.
func Placeholder(address int, symbol string) Word {
	w := Zero(address, KindInstruction)
	w.unresolved = symbol

	return w
}

// Unresolved returns the symbol name this word awaits, and whether it is still unresolved.
func (w Word) Unresolved() (string, bool) {
	return w.unresolved, w.unresolved != ""
}

// Bits returns the raw Width-character binary string.
func (w Word) Bits() string {
	return w.bits
}

// Patch overwrites bits 9..2 with the low 8 bits of value (two's complement) and bits 1..0 with the
// given 2-bit ARE field, then clears the unresolved marker. It is the only way pass two fills in a
// placeholder.
func (w *Word) Patch(value int, are string) {
	if len(are) != 2 {
		panic("word: are field must be 2 bits")
	}

	w.bits = EncodeN(value, 8) + are
	w.unresolved = ""
}

func (w Word) String() string {
	return w.bits
}

// List is an ordered, address-indexed sequence of Words. Ownership is by value: each Word belongs
// to exactly one List (the data list, or an instruction's operand word list).
type List []Word

// Append adds w to the end of the list.
func (l *List) Append(w Word) {
	*l = append(*l, w)
}

// ShiftAddresses adds icf to the address of every word in the list. Used once, between passes, to
// convert pass-one-relative data addresses into final addresses in the unified code+data image.
func (l List) ShiftAddresses(icf int) {
	for i := range l {
		l[i].Address += icf
	}
}

// Addresses returns the address of every word in emission order.
func (l List) Addresses() []int {
	addrs := make([]int, len(l))
	for i, w := range l {
		addrs[i] = w.Address
	}

	return addrs
}

// Package encoding implements marshalling of assembled object code, entry, and external
// tables to the base-4 text formats used by this assembler's three output artifacts. It
// is grounded on the teacher assembler's internal/encoding package, which implements
// encoding.TextMarshaler/TextUnmarshaler over an Intel-Hex-style record format; this
// package keeps that same "small value type with a MarshalText method" shape but targets
// three separate line-oriented artifacts instead of one interleaved record stream, since
// object code, entry symbols, and external references are written to three files rather
// than framed as distinct record kinds in a single one.
package encoding

import (
	"strings"

	"github.com/arlovac/quad4asm/internal/word"
)

// Word is one addressed word destined for the object artifact, decoupled from
// internal/asm.Order so this package never needs to import the assembler.
type Word struct {
	Address int
	Bits    string
}

// Object is the .ob artifact: a header giving the final instruction and data image
// sizes, followed by every instruction word and then every data word, in emission order.
type Object struct {
	ICF              int
	DCF              int
	InstructionWords []Word
	DataWords        []Word
}

var _ interface {
	MarshalText() ([]byte, error)
} = (*Object)(nil)

// MarshalText renders the header line followed by one "address\tword\n" line per word.
func (o *Object) MarshalText() ([]byte, error) {
	var b strings.Builder

	b.WriteString(word.HeaderAddressToBase4(o.ICF - 100))
	b.WriteByte('\t')
	b.WriteString(word.HeaderCodeToBase4(o.DCF))
	b.WriteByte('\n')

	for _, w := range o.InstructionWords {
		writeWordLine(&b, w)
	}

	for _, w := range o.DataWords {
		writeWordLine(&b, w)
	}

	return []byte(b.String()), nil
}

func writeWordLine(b *strings.Builder, w Word) {
	b.WriteString(word.AddressToBase4(w.Address))
	b.WriteByte('\t')
	b.WriteString(word.BinaryWordToBase4(w.Bits))
	b.WriteByte('\n')
}

// Ref is one named symbol bound to an address, the shape shared by both the .ent and
// .ext artifacts: an entry symbol's final value, or an external reference's use site.
type Ref struct {
	Name    string
	Address int
}

// Entries is the .ent artifact: one line per entry symbol, in insertion order.
type Entries struct {
	Refs []Ref
}

var _ interface {
	MarshalText() ([]byte, error)
} = (*Entries)(nil)

func (e *Entries) MarshalText() ([]byte, error) {
	return marshalRefs(e.Refs), nil
}

// Externals is the .ext artifact: one line per external use site, in patch order.
type Externals struct {
	Refs []Ref
}

var _ interface {
	MarshalText() ([]byte, error)
} = (*Externals)(nil)

func (e *Externals) MarshalText() ([]byte, error) {
	return marshalRefs(e.Refs), nil
}

func marshalRefs(refs []Ref) []byte {
	var b strings.Builder

	for _, r := range refs {
		b.WriteString(r.Name)
		b.WriteByte('\t')
		b.WriteString(word.AddressToBase4(r.Address))
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

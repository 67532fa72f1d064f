package asm

// emit.go implements the third compiler pass: handing the assembled image to
// internal/encoding to render the three base-4 text artifacts. Grounded on the
// teacher's internal/cli/cmd/asm.go, which builds a HexEncoding from the assembled
// program and calls MarshalText before writing the result to a file -- the encoding
// type owns the text format, the assembler only owns the in-memory model.

import (
	"github.com/arlovac/quad4asm/internal/encoding"
	"github.com/arlovac/quad4asm/internal/symtab"
)

// ICF reports the final instruction counter: 100 plus the total size of the instruction
// image. Pass one leaves IC at that value and nothing advances it afterwards, so ICF
// returns IC.
func (a *Assembler) ICF() int {
	return a.IC
}

// EmitObject renders the .ob artifact: a header line giving the instruction image size
// and the data image size, followed by one line per instruction word and then one line
// per data word, both in emission order.
func (a *Assembler) EmitObject() string {
	obj := &encoding.Object{
		ICF: a.ICF(),
		DCF: a.DC,
	}

	for _, order := range a.Orders {
		for _, w := range order.Words {
			obj.InstructionWords = append(obj.InstructionWords, encoding.Word{Address: w.Address, Bits: w.Bits()})
		}
	}

	for _, w := range a.Data {
		obj.DataWords = append(obj.DataWords, encoding.Word{Address: w.Address, Bits: w.Bits()})
	}

	text, _ := obj.MarshalText()

	return string(text)
}

// EmitEntries renders the .ent artifact. Callers must check EntriesFlag first; an empty
// result with no entry symbols is a valid but pointless file, left to the driver to skip.
func (a *Assembler) EmitEntries() string {
	ents := &encoding.Entries{}

	for _, sym := range a.Symbols.Entries() {
		if sym.Kind != symtab.KindEntry {
			continue
		}

		ents.Refs = append(ents.Refs, encoding.Ref{Name: sym.Name, Address: sym.Value})
	}

	text, _ := ents.MarshalText()

	return string(text)
}

// EmitExternals renders the .ext artifact: one line per recorded use site, in the order
// pass two patched them.
func (a *Assembler) EmitExternals() string {
	exts := &encoding.Externals{}

	for _, ref := range a.Externals {
		exts.Refs = append(exts.Refs, encoding.Ref{Name: ref.Name, Address: ref.Address})
	}

	text, _ := exts.MarshalText()

	return string(text)
}

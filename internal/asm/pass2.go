package asm

// pass2.go implements the second pass: entry-symbol promotion and placeholder patching.
// Grounded on the teacher's Generator.WriteTo/Generator.Encode two-phase walk in gen.go
// (resolve symbols against pc, then write), adapted to patch Order.Words in place using
// the SrcWordIdx/DstWordIdx recorded in pass one instead of re-running code generation
// against a final program counter -- this machine's operands are absolute-patched, not
// PC-relative like the teacher's BR/LD offsets.

import (
	"strings"

	"github.com/arlovac/quad4asm/internal/lex"
	"github.com/arlovac/quad4asm/internal/symtab"
)

// PassTwo re-walks the same preprocessed source to promote .entry targets, then patches
// every placeholder word left by PassOne against the now-complete symbol table. It must
// be called exactly once, after PassOne.
func (a *Assembler) PassTwo(source string) error {
	lines := strings.Split(source, "\n")

	for i, line := range lines {
		lineNo := i + 1
		a.passTwoLine(lineNo, line)
	}

	a.patchOrders()

	return a.Err()
}

func (a *Assembler) passTwoLine(lineNo int, line string) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || trimmed[0] == ';' {
		return
	}

	remain := line
	if end, ok := lex.IsSymbolDefinition(line, 0); ok {
		remain = line[end:]
	}

	remain = strings.TrimLeft(remain, " \t")

	kind, ok := lex.IsDirective(remain)
	if !ok || kind != lex.DirectiveEntry {
		return
	}

	name := strings.TrimSpace(remain[len(".entry"):])

	h, found := a.Symbols.Find(name)
	if !found {
		a.addError(newError(KindSemantic, lineNo, line, "symbol does not exist: %s", name))
		return
	}

	a.Symbols.SetKind(h, symtab.KindEntry)
	a.EntriesFlag = true
}

func (a *Assembler) patchOrders() {
	for _, order := range a.Orders {
		if order.SrcWordIdx >= 0 {
			a.patchOperand(order, order.Src, order.SrcWordIdx)
		}

		if order.DstWordIdx >= 0 {
			a.patchOperand(order, order.Dst, order.DstWordIdx)
		}
	}
}

func (a *Assembler) patchOperand(order *Order, op Operand, idx int) {
	h, found := a.Symbols.Find(op.Symbol)
	if !found {
		a.addError(newError(KindSemantic, order.Line, order.Source, "undefined symbol: %s", op.Symbol))
		return
	}

	sym := a.Symbols.Get(h)

	are := "10"
	if sym.Kind == symtab.KindExternal {
		are = "01"
	}

	target := &order.Words[idx]
	target.Patch(sym.Value, are)

	if sym.Kind == symtab.KindExternal {
		a.Externals = append(a.Externals, ExternalRef{Name: op.Symbol, Address: target.Address})
	}
}

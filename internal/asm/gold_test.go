package asm_test

// gold_test.go exercises the full pipeline end to end: macro expansion feeding the two
// assembler passes feeding the emitters, the same sequence internal/cli/cmd/assemble.go
// drives per source file. Grounded on the teacher's gold_test.go shape: small, literal
// source fixtures with hand-computed expected output, not generated test data.

import (
	"strings"
	"testing"

	"github.com/arlovac/quad4asm/internal/asm"
	"github.com/arlovac/quad4asm/internal/macro"
)

func pipeline(t *testing.T, source string) *asm.Assembler {
	t.Helper()

	var expanded strings.Builder

	pre := macro.New()
	if err := pre.Expand(strings.NewReader(source), &expanded); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	return assemble(t, expanded.String())
}

func TestGoldMacroThenInstruction(t *testing.T) {
	src := "mcro GREET\nprn #1\nprn #2\nmcroend\nGREET\nstop\n"

	a := pipeline(t, src)

	if len(a.Orders) != 3 {
		t.Fatalf("len(Orders) = %d, want 3 (two prn from the macro body, one stop)", len(a.Orders))
	}

	if a.ICF() != 100+2+2+1 {
		t.Errorf("ICF = %d, want %d", a.ICF(), 100+2+2+1)
	}
}

func TestGoldMatrixDeclarationPartialFill(t *testing.T) {
	a := assemble(t, "M: .mat [2][2] 1,2\nstop\n")

	if len(a.Data) != 4 {
		t.Fatalf("len(Data) = %d, want 4", len(a.Data))
	}

	want := []string{"0000000001", "0000000010", "0000000000", "0000000000"}
	for i, w := range want {
		if got := a.Data[i].Bits(); got != w {
			t.Errorf("Data[%d] = %s, want %s", i, got, w)
		}
	}

	h, found := a.Symbols.Find("M")
	if !found {
		t.Fatal("symbol M not found")
	}

	if got, want := a.Symbols.Get(h).Value, a.ICF(); got != want {
		t.Errorf("M = %d, want %d (ICF + 0)", got, want)
	}
}

func TestGoldDuplicateLabelSkipsDownstream(t *testing.T) {
	a := asm.New()

	src := "L: .data 1\nL: .data 2\nstop\n"
	if err := a.PassOne(src); err == nil {
		t.Fatal("PassOne: want error for duplicate label")
	}
}

func TestGoldResetBetweenFilesIsIdenticalToFresh(t *testing.T) {
	a := pipeline(t, "stop\n.data 1\n")
	a.Reset()

	fresh := asm.New()

	if a.IC != fresh.IC || a.DC != fresh.DC {
		t.Errorf("reset state (IC=%d DC=%d) != fresh state (IC=%d DC=%d)", a.IC, a.DC, fresh.IC, fresh.DC)
	}

	if a.Symbols.Len() != fresh.Symbols.Len() {
		t.Error("reset did not clear symbol table to fresh length")
	}
}

package word_test

import (
	"testing"

	"github.com/arlovac/quad4asm/internal/word"
)

func TestZero(t *testing.T) {
	w := word.Zero(100, word.KindInstruction)

	if w.Bits() != "0000000000" {
		t.Errorf("Zero: bits = %q", w.Bits())
	}

	if w.Address != 100 || w.Kind != word.KindInstruction {
		t.Errorf("Zero: address/kind = %d/%v", w.Address, w.Kind)
	}

	if _, ok := w.Unresolved(); ok {
		t.Error("Zero: should not be unresolved")
	}
}

func TestPlaceholder_Patch(t *testing.T) {
	w := word.Placeholder(101, "X")

	sym, ok := w.Unresolved()
	if !ok || sym != "X" {
		t.Fatalf("Placeholder: unresolved = %q, %v", sym, ok)
	}

	w.Patch(103, "10")

	if _, ok := w.Unresolved(); ok {
		t.Error("Patch: should clear unresolved marker")
	}

	want := word.EncodeN(103, 8) + "10"
	if w.Bits() != want {
		t.Errorf("Patch: bits = %q, want %q", w.Bits(), want)
	}
}

func TestNew_PanicsOnBadWidth(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New: want panic on bad width")
		}
	}()

	word.New("000", 0, word.KindData)
}

func TestList_Addresses(t *testing.T) {
	var l word.List

	l.Append(word.Zero(100, word.KindInstruction))
	l.Append(word.Zero(101, word.KindInstruction))
	l.Append(word.Zero(102, word.KindInstruction))

	addrs := l.Addresses()
	for i, a := range addrs {
		if a != 100+i {
			t.Errorf("Addresses()[%d] = %d, want %d", i, a, 100+i)
		}
	}
}

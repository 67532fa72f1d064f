package asm_test

import (
	"strings"
	"testing"
)

// TestEmitObjectImmediatePrinting pins scenario S1: prn #-5; stop.
func TestEmitObjectImmediatePrinting(t *testing.T) {
	src := "prn #-5\nstop\n"
	a := assemble(t, src)

	if got, want := a.Orders[0].Words[0].Bits(), "1101000000"; got != want {
		t.Errorf("prn leading word = %s, want %s", got, want)
	}

	if got, want := a.Orders[0].Words[1].Bits(), "1111101100"; got != want {
		t.Errorf("prn operand word = %s, want %s", got, want)
	}

	if got, want := a.Orders[1].Words[0].Bits(), "1111000000"; got != want {
		t.Errorf("stop word = %s, want %s", got, want)
	}

	ob := a.EmitObject()

	lines := strings.Split(strings.TrimRight(ob, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("EmitObject() has %d lines, want 4 (header + 3 words)", len(lines))
	}

	header := strings.Split(lines[0], "\t")
	if header[0] != word4(3, 6) || header[1] != word4(0, 4) {
		t.Errorf("header = %q, want icf-100=3, dcf=0", lines[0])
	}
}

// TestEmitObjectDataThenLabelUse pins scenario S2.
func TestEmitObjectDataThenLabelUse(t *testing.T) {
	src := "MAIN: mov X, r3\nstop\nX:    .data 7\n"
	a := assemble(t, src)

	mov := a.Orders[0]

	if got, want := mov.Words[0].Bits(), "0000011100"; got != want {
		t.Errorf("mov leading word = %s, want %s", got, want)
	}

	if got, want := mov.Words[1].Bits(), "0110100010"; got != want {
		t.Errorf("mov patched operand word = %s, want %s", got, want)
	}

	if got, want := mov.Words[2].Bits(), "0000001100"; got != want {
		t.Errorf("mov register word = %s, want %s", got, want)
	}

	if got, want := a.Data[0].Bits(), "0000000111"; got != want {
		t.Errorf("data word = %s, want %s", got, want)
	}

	h, _ := a.Symbols.Find("X")
	if got, want := a.Symbols.Get(h).Value, 104; got != want {
		t.Errorf("X = %d, want 104", got)
	}
}

// TestEmitExternalsRecordsUseSite pins scenario S3.
func TestEmitExternalsRecordsUseSite(t *testing.T) {
	src := ".extern E\njmp E\nstop\n"
	a := assemble(t, src)

	jmp := a.Orders[0]

	if got, want := jmp.Words[0].Bits(), "1001000100"; got != want {
		t.Errorf("jmp leading word = %s, want %s", got, want)
	}

	if got, want := jmp.Words[1].Bits(), "0000000001"; got != want {
		t.Errorf("jmp patched operand word = %s, want %s", got, want)
	}

	if len(a.Externals) != 1 || a.Externals[0].Name != "E" || a.Externals[0].Address != 101 {
		t.Fatalf("Externals = %+v, want one entry (E, 101)", a.Externals)
	}

	ext := a.EmitExternals()
	if !strings.HasPrefix(ext, "E\t") {
		t.Errorf("EmitExternals() = %q, want prefix %q", ext, "E\t")
	}
}

func TestEmitEntriesOnlyListsEntryKindSymbols(t *testing.T) {
	src := "LOOP: inc r1\n.entry LOOP\nstop\n"
	a := assemble(t, src)

	if !a.EntriesFlag {
		t.Fatal("EntriesFlag = false, want true")
	}

	ent := a.EmitEntries()
	if !strings.HasPrefix(ent, "LOOP\t") {
		t.Errorf("EmitEntries() = %q, want prefix %q", ent, "LOOP\t")
	}
}

func TestEmitEntriesEmptyWhenNoEntries(t *testing.T) {
	a := assemble(t, "stop\n")

	if a.EntriesFlag {
		t.Fatal("EntriesFlag = true, want false")
	}

	if got := a.EmitEntries(); got != "" {
		t.Errorf("EmitEntries() = %q, want empty", got)
	}
}

// word4 renders the low bits bits of n as a base-4 string, MSB pair first. It is an
// independent oracle for the expected header fields, not a call into production code.
func word4(n, bits int) string {
	const alphabet = "abcd"

	out := make([]byte, bits/2)
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = alphabet[n&0x3]
		n >>= 2
	}

	return string(out)
}

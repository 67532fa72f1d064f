package macro_test

import (
	"strings"
	"testing"

	"github.com/arlovac/quad4asm/internal/macro"
)

func expand(t *testing.T, src string) (string, error) {
	t.Helper()

	var out strings.Builder

	p := macro.New()
	err := p.Expand(strings.NewReader(src), &out)

	return out.String(), err
}

func TestExpand_InlinesInvocation(t *testing.T) {
	src := "mcro GREET\nprn #1\nprn #2\nmcroend\nGREET\nstop\n"

	got, err := expand(t, src)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	want := "prn #1\nprn #2\nstop\n"
	if got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_VerbatimWhenNoMacros(t *testing.T) {
	src := "mov r1, r2\nstop\n"

	got, err := expand(t, src)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	if got != src {
		t.Errorf("Expand = %q, want %q", got, src)
	}
}

func TestExpand_UnknownBareWordCopiedVerbatim(t *testing.T) {
	src := "NOTAMACRO\n"

	got, err := expand(t, src)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	if got != src {
		t.Errorf("Expand = %q, want %q", got, src)
	}
}

func TestExpand_ReservedNameRejected(t *testing.T) {
	src := "mcro mov\nprn #1\nmcroend\n"

	_, err := expand(t, src)
	if err == nil {
		t.Fatal("Expand: want error for reserved macro name")
	}
}

func TestExpand_ExtraTokensAfterMcro(t *testing.T) {
	src := "mcro GREET extra\nprn #1\nmcroend\n"

	_, err := expand(t, src)
	if err == nil {
		t.Fatal("Expand: want error for extra tokens after mcro")
	}
}

func TestExpand_ExtraTokensAfterMcroEnd(t *testing.T) {
	src := "mcro GREET\nprn #1\nmcroend extra\nGREET\n"

	_, err := expand(t, src)
	if err == nil {
		t.Fatal("Expand: want error for extra tokens after mcroend")
	}
}

// TestExpand_NestedMcroHasNoDepthTracking documents that the state machine has no nesting
// depth counter: a "mcro" line seen while capturing is itself just captured verbatim (not
// specially recognized), and the first "mcroend" seen -- even one logically meant to close
// a nested definition -- ends the enclosing capture. A stray second "mcroend" then falls
// through to verbatim copy in the OUTSIDE state, exactly as an unmatched directive would.
func TestExpand_NestedMcroHasNoDepthTracking(t *testing.T) {
	src := "mcro OUTER\nmcro INNER\nprn #1\nmcroend\nmcroend\nOUTER\n"

	got, err := expand(t, src)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	want := "mcroend\nmcro INNER\nprn #1\n"
	if got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_UnterminatedMacroReportsError(t *testing.T) {
	src := "mcro GREET\nprn #1\n"

	_, err := expand(t, src)
	if err == nil {
		t.Fatal("Expand: want error for unterminated macro")
	}
}

func TestExpand_Idempotent(t *testing.T) {
	src := "mcro GREET\nprn #1\nmcroend\nGREET\nstop\n"

	first, err := expand(t, src)
	if err != nil {
		t.Fatalf("first Expand: %v", err)
	}

	second, err := expand(t, first)
	if err != nil {
		t.Fatalf("second Expand: %v", err)
	}

	if first != second {
		t.Errorf("Expand not idempotent: %q != %q", first, second)
	}
}

func TestExpand_InvalidNameStillEntersCapturing(t *testing.T) {
	src := "mcro 1bad\nprn #1\nmcroend\nstop\n"

	got, err := expand(t, src)
	if err == nil {
		t.Fatal("Expand: want error for invalid macro name")
	}

	if got != "stop\n" {
		t.Errorf("Expand = %q, want %q", got, "stop\n")
	}
}

// Package symtab implements the assembler's symbol table: an insertion-ordered mapping from symbol
// name to (address, kind). It generalizes the teacher assembler's flat SymbolTable (a bare
// map[string]Word, see asm.SymbolTable in the LC-3 assembler this was adapted from) into a table
// that also tracks a per-symbol kind and preserves insertion order, both of which the .ent emitter
// and the .entry/.extern directives require.
package symtab

import "fmt"

// Kind classifies what a symbol refers to.
type Kind uint8

// Symbol kinds.
const (
	KindData Kind = iota + 1
	KindCode
	KindEntry
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindCode:
		return "code"
	case KindEntry:
		return "entry"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Symbol is one entry in the table.
type Symbol struct {
	Name  string
	Value int
	Kind  Kind
}

// Handle is an opaque reference to a Symbol previously inserted into a Table, returned by Insert
// and used by SetKind/SetValue to avoid a second name lookup.
type Handle int

// DuplicateError is returned by Insert when name already exists in the table.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("symbol already exists: %q", e.Name)
}

// Table is an insertion-ordered symbol table keyed by name.
type Table struct {
	order []Symbol
	index map[string]Handle
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{index: make(map[string]Handle)}
}

// Insert adds a new symbol with the given name and zero value/kind, returning a handle to it. It
// fails with *DuplicateError if the name is already present.
func (t *Table) Insert(name string) (Handle, error) {
	if _, ok := t.index[name]; ok {
		return 0, &DuplicateError{Name: name}
	}

	h := Handle(len(t.order))
	t.order = append(t.order, Symbol{Name: name})
	t.index[name] = h

	return h, nil
}

// Find returns the handle for name, if present.
func (t *Table) Find(name string) (Handle, bool) {
	h, ok := t.index[name]
	return h, ok
}

// Get returns the symbol at h.
func (t *Table) Get(h Handle) Symbol {
	return t.order[h]
}

// SetKind sets the kind of the symbol at h.
func (t *Table) SetKind(h Handle, kind Kind) {
	t.order[h].Kind = kind
}

// SetValue sets the value of the symbol at h.
func (t *Table) SetValue(h Handle, value int) {
	t.order[h].Value = value
}

// ShiftDataSymbols adds icf to the value of every symbol of kind data. It must be called exactly
// once, between pass one and pass two, to convert data symbols' pass-one-relative addresses into
// addresses in the unified code+data image.
func (t *Table) ShiftDataSymbols(icf int) {
	for i := range t.order {
		if t.order[i].Kind == KindData {
			t.order[i].Value += icf
		}
	}
}

// Entries returns every symbol in insertion order.
func (t *Table) Entries() []Symbol {
	out := make([]Symbol, len(t.order))
	copy(out, t.order)

	return out
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int {
	return len(t.order)
}

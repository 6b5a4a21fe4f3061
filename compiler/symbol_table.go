package compiler

// Symbol binds a variable name to a slot in the locals store.
type Symbol struct {
	name string
	slot uint64
}

// Name returns the variable name.
func (s *Symbol) Name() string { return s.name }

// Slot returns the index of the variable in the locals store.
func (s *Symbol) Slot() uint64 { return s.slot }

// SymbolTable maps variable names to local slots for a whole compilation
// unit. There is a single scope: blocks do not introduce new bindings.
//
// The table is an ordered list. Define always appends, so declaring a name
// twice allocates a second slot, while Resolve returns the first match. A
// redeclared name is therefore written through its new slot by the let
// statement and read through its original slot everywhere else. The compiler
// warns when this happens.
type SymbolTable struct {
	symbols []*Symbol
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Define appends a new binding for name and returns it. Slots are assigned
// sequentially from zero.
func (t *SymbolTable) Define(name string) *Symbol {
	s := &Symbol{name: name, slot: uint64(len(t.symbols))}
	t.symbols = append(t.symbols, s)
	return s
}

// Resolve returns the first binding for name.
func (t *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for _, s := range t.symbols {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// IsDefined returns true if name has at least one binding.
func (t *SymbolTable) IsDefined(name string) bool {
	_, ok := t.Resolve(name)
	return ok
}

// Len returns the number of bindings, which is also the number of slots.
func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// Symbol returns the binding stored in a slot.
func (t *SymbolTable) Symbol(slot uint64) *Symbol {
	return t.symbols[slot]
}

// Names returns the name bound to each slot, in slot order. A redeclared
// name appears once per declaration.
func (t *SymbolTable) Names() []string {
	names := make([]string, len(t.symbols))
	for i, s := range t.symbols {
		names[i] = s.name
	}
	return names
}

// Clone returns an independent copy of the table. The REPL compiles each
// input against a clone and keeps it only if compilation succeeds.
func (t *SymbolTable) Clone() *SymbolTable {
	symbols := make([]*Symbol, len(t.symbols))
	copy(symbols, t.symbols)
	return &SymbolTable{symbols: symbols}
}

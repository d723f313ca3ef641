package defaults

// Symbol is one enumerated constant together with the enum and source that declared it.
type Symbol struct {
	Name   string
	Enum   string
	Value  string
	Source string
}

// SymbolTable is shared by every source of a run. The first declaration of a name wins.
type SymbolTable struct {
	symbols map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// Add records the symbol and reports whether it was new.
func (table *SymbolTable) Add(symbol Symbol) bool {
	if _, found := table.symbols[symbol.Name]; found {
		return false
	}
	table.symbols[symbol.Name] = symbol
	return true
}

func (table *SymbolTable) Lookup(name string) (Symbol, bool) {
	symbol, found := table.symbols[name]
	return symbol, found
}

func (table *SymbolTable) Len() int {
	return len(table.symbols)
}

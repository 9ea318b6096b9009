package organ

import (
	"github.com/viant/scalpel/inspector/graph"
	"github.com/viant/scalpel/inspector/java"
)

// Counter reports how many identifiers of an individual exist and how many map onto the host
type Counter interface {
	Count(o *Organ, ind *Individual) (total, mapped int)
}

// StaticCounter returns caller supplied numbers for every individual
type StaticCounter struct {
	Total  int
	Mapped int
}

// Count returns the fixed numbers
func (s StaticCounter) Count(*Organ, *Individual) (int, int) {
	return s.Total, s.Mapped
}

// SymbolTable holds the identifiers known to the host code base
type SymbolTable struct {
	names map[string]bool
}

// NewSymbolTable creates a symbol table
func NewSymbolTable(names ...string) *SymbolTable {
	ret := &SymbolTable{names: map[string]bool{}}
	ret.Add(names...)
	return ret
}

// SymbolTableFromFiles collects every identifier of the host files
func SymbolTableFromFiles(files []*graph.File) *SymbolTable {
	ret := NewSymbolTable()
	for _, aFile := range files {
		ret.Add(java.Identifiers(aFile.Source)...)
	}
	return ret
}

// Add registers names
func (s *SymbolTable) Add(names ...string) {
	for _, name := range names {
		s.names[name] = true
	}
}

// Has returns true if name is known to the host
func (s *SymbolTable) Has(name string) bool {
	return s.names[name]
}

// Len returns the number of host identifiers
func (s *SymbolTable) Len() int {
	return len(s.names)
}

// Count extracts the identifiers of the materialized individual and counts those known to the host
func (s *SymbolTable) Count(o *Organ, ind *Individual) (int, int) {
	identifiers := java.Identifiers([]byte(o.Materialize(ind.Lines)))
	mapped := 0
	for _, name := range identifiers {
		if s.Has(name) {
			mapped++
		}
	}
	return len(identifiers), mapped
}

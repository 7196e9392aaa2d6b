package model

import "path/filepath"

// SymbolSeparator splits a discovery symbol's base into locator and class name.
const SymbolSeparator = "::"

// DiscoverySymbol is a parsed discovery symbol such as
// "suites/kafka/test_produce.go::ProduceTest".
type DiscoverySymbol struct {
	Raw       string // original, unparsed text
	Directory Path   // absolute directory holding the locator
	Locator   string // file or subtree name inside Directory
	ClassName string // optional type filter, empty when absent
}

// Path returns the filesystem location the symbol points at.
func (s DiscoverySymbol) Path() Path {
	return Path(filepath.Join(string(s.Directory), s.Locator))
}

// HasClass reports whether the symbol narrows discovery to a single type.
func (s DiscoverySymbol) HasClass() bool {
	return s.ClassName != ""
}

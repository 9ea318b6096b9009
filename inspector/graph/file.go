package graph

import "strings"

// File represents a parsed source file with its types and imports
type File struct {
	Name    string   // File name
	Path    string   // File path
	Package string   // Package (namespace) name
	Imports []Import // Imports used in this file
	Types   []*Type  // Types declared in this file
	Hash    uint64   // Hash of the source content
	Source  []byte   // Raw source

	typeMap map[string]int // Map of types for quick lookup
}

// Import represents an import binding
type Import struct {
	Path       string // imported name without the trailing .*
	IsWildcard bool
	IsStatic   bool
}

// String returns the import as written in source
func (i Import) String() string {
	builder := strings.Builder{}
	builder.WriteString("import ")
	if i.IsStatic {
		builder.WriteString("static ")
	}
	builder.WriteString(i.Path)
	if i.IsWildcard {
		builder.WriteString(".*")
	}
	builder.WriteString(";")
	return builder.String()
}

// LookupType retrieves a type by name from the file
func (f *File) LookupType(name string) *Type {
	if len(f.typeMap) != len(f.Types) {
		f.IndexTypes()
	}
	if idx, ok := f.typeMap[name]; ok && idx < len(f.Types) {
		return f.Types[idx]
	}
	return nil
}

// LookupMethod returns the first type declaring a method with the given name
func (f *File) LookupMethod(name string) (*Type, *Function) {
	for _, typ := range f.Types {
		if method := typ.LookupMethod(name); method != nil {
			return typ, method
		}
	}
	return nil, nil
}

// PrimaryType returns the public type or the first declared type
func (f *File) PrimaryType() *Type {
	for _, typ := range f.Types {
		if typ.IsExported {
			return typ
		}
	}
	if len(f.Types) > 0 {
		return f.Types[0]
	}
	return nil
}

// IndexTypes rebuilds type lookup index
func (f *File) IndexTypes() {
	f.typeMap = make(map[string]int, len(f.Types))
	for i, typ := range f.Types {
		if typ == nil {
			continue
		}
		if _, ok := f.typeMap[typ.Name]; !ok {
			f.typeMap[typ.Name] = i
		}
	}
}

// ImportPathFor returns the explicit import that ends with the given simple name
func (f *File) ImportPathFor(name string) (string, bool) {
	for _, imp := range f.Imports {
		if imp.IsWildcard {
			continue
		}
		if imp.Path == name || strings.HasSuffix(imp.Path, "."+name) {
			return imp.Path, true
		}
	}
	return "", false
}

package graph

import (
	"strings"
)

// TypeKind represents a kind of declared type
type TypeKind string

const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindAnnotation TypeKind = "annotation"
	KindRecord     TypeKind = "record"
)

// Location represents a node position in the source code
type Location struct {
	Start   int    // start byte offset
	End     int    // end byte offset
	Line    int    // 1-based start line
	EndLine int    // 1-based end line
	Raw     string // raw node text
}

// Type represents a parsed type declaration with its members
type Type struct {
	Name        string
	Kind        TypeKind
	Package     string   // declaring package (namespace)
	Comment     string   // Type documentation
	Annotations []string // Annotations for the type
	IsExported  bool     // Whether the type is public
	Extends     []string
	Implements  []string
	Fields      []*Field
	Methods     []*Function
	Location    *Location // Location of the type in the source code
	Header      string    // declaration text up to and including the opening brace

	fieldMap  map[string]int // Map of fields for quick lookup
	methodMap map[string]int // Map of methods for quick lookup
}

// QualifiedName returns package qualified type name
func (t *Type) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// LookupField retrieves a field by name
func (t *Type) LookupField(name string) *Field {
	if len(t.fieldMap) != len(t.Fields) {
		t.indexFields()
	}
	if idx, ok := t.fieldMap[name]; ok && idx < len(t.Fields) {
		return t.Fields[idx]
	}
	return nil
}

// LookupMethod retrieves the first method with the given name; overloads are not distinguished
func (t *Type) LookupMethod(name string) *Function {
	if t.methodMap == nil || len(t.methodMap) > len(t.Methods) {
		t.indexMethods()
	}
	if idx, ok := t.methodMap[name]; ok && idx < len(t.Methods) {
		return t.Methods[idx]
	}
	return nil
}

// AddField adds a field to the type
func (t *Type) AddField(field *Field) {
	if t.fieldMap == nil {
		t.fieldMap = make(map[string]int)
	}
	t.Fields = append(t.Fields, field)
	if _, ok := t.fieldMap[field.Name]; !ok {
		t.fieldMap[field.Name] = len(t.Fields) - 1
	}
}

// AddMethod adds a method to the type
func (t *Type) AddMethod(method *Function) {
	if t.methodMap == nil {
		t.methodMap = make(map[string]int)
	}
	t.Methods = append(t.Methods, method)
	if _, ok := t.methodMap[method.Name]; !ok {
		t.methodMap[method.Name] = len(t.Methods) - 1
	}
}

func (t *Type) indexFields() {
	t.fieldMap = make(map[string]int, len(t.Fields))
	for i, field := range t.Fields {
		if _, ok := t.fieldMap[field.Name]; !ok {
			t.fieldMap[field.Name] = i
		}
	}
}

func (t *Type) indexMethods() {
	t.methodMap = make(map[string]int, len(t.Methods))
	for i, method := range t.Methods {
		if _, ok := t.methodMap[method.Name]; !ok {
			t.methodMap[method.Name] = i
		}
	}
}

// Field represents a type field
type Field struct {
	Name        string
	TypeName    string // raw declared type, e.g. List<String>
	Annotations []string
	Location    *Location
	IsStatic    bool
	IsConstant  bool
}

// injectionAnnotations marks dependencies supplied by a container
var injectionAnnotations = []string{"@Autowired", "@Inject", "@Resource", "@Value"}

// IsInjected returns true if field carries a dependency injection annotation
func (f *Field) IsInjected() bool {
	for _, annotation := range f.Annotations {
		for _, candidate := range injectionAnnotations {
			if annotation == candidate || strings.HasPrefix(annotation, candidate+"(") {
				return true
			}
		}
	}
	return false
}

// Content returns the field declaration text
func (f *Field) Content() string {
	if f.Location == nil {
		return ""
	}
	return f.Location.Raw
}

// Function represents a method or constructor declaration
type Function struct {
	Name           string
	Annotations    []string
	Parameters     []*Parameter
	ResultType     string // empty for constructors
	IsConstructor  bool
	IsStatic       bool
	IsExported     bool
	Signature      string
	Body           *Location
	Location       *Location
	CallSites      []*CallSite
	Instantiations []*Instantiation
	Statements     []*Statement
}

// Content returns the method declaration text
func (m *Function) Content() string {
	if m.Location == nil {
		return ""
	}
	return m.Location.Raw
}

// ParameterType returns declared type of a parameter or empty string
func (m *Function) ParameterType(name string) string {
	for _, param := range m.Parameters {
		if param.Name == name {
			return param.TypeName
		}
	}
	return ""
}

// LocalType returns declared type of a local variable or empty string
func (m *Function) LocalType(name string) string {
	for _, stmt := range m.Statements {
		for _, binding := range stmt.Bindings {
			if binding.Name == name {
				return binding.TypeName
			}
		}
	}
	return ""
}

// Parameter represents a method parameter
type Parameter struct {
	Name     string
	TypeName string
	Variadic bool
}

// CallSite represents a method invocation found in a method body
type CallSite struct {
	Name     string // invoked method name
	Receiver string // receiver expression, empty for unqualified calls
	Line     int
}

// Instantiation represents a `new Type(...)` expression
type Instantiation struct {
	TypeName string
	Line     int
}

// Binding represents a local name introduced by a statement
type Binding struct {
	Name     string
	TypeName string
}

// Statement represents a top level statement of a method body
type Statement struct {
	Line      int
	Names     []string  // bare identifier references
	FieldRefs []string  // explicit this.<name> references
	Bindings  []Binding // locals declared within the statement
}

// SanitizeTypeName strips generic arguments, array brackets and varargs from a type name
func SanitizeTypeName(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.Index(name, "<"); idx != -1 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, "...")
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSpace(strings.TrimSuffix(name, "[]"))
	}
	return strings.TrimSpace(name)
}

// SimpleName extracts the simple name from a possibly qualified name
// e.g., "java.util.List" -> "List"
func SimpleName(qualifiedName string) string {
	if idx := strings.LastIndex(qualifiedName, "."); idx != -1 {
		return qualifiedName[idx+1:]
	}
	return qualifiedName
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "void": true, "var": true,
}

// javaLang lists implicitly imported types that never need resolution
var javaLang = map[string]bool{
	"Object": true, "String": true, "StringBuilder": true, "StringBuffer": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true, "Character": true,
	"Boolean": true, "Double": true, "Float": true, "Number": true, "Math": true,
	"System": true, "Thread": true, "Runnable": true, "Exception": true,
	"RuntimeException": true, "Error": true, "Throwable": true, "Iterable": true,
	"Comparable": true, "CharSequence": true, "Class": true, "Enum": true,
	"Void": true, "Override": true, "Deprecated": true, "SuppressWarnings": true,
	"IllegalArgumentException": true, "IllegalStateException": true,
	"NullPointerException": true, "UnsupportedOperationException": true,
	"IndexOutOfBoundsException": true, "ArithmeticException": true,
}

// IsBuiltin returns true for primitives and implicitly imported java.lang types
func IsBuiltin(typeName string) bool {
	name := SanitizeTypeName(typeName)
	if name == "" {
		return true
	}
	if primitives[name] {
		return true
	}
	if strings.HasPrefix(name, "java.lang.") {
		return true
	}
	return javaLang[name]
}

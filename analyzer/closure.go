package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/viant/scalpel/inspector/graph"
	"github.com/viant/scalpel/inspector/java"
	"go.uber.org/zap"
)

// IssueKind classifies a non fatal closure problem
type IssueKind string

const (
	IssueSymbolResolution      IssueKind = "SymbolResolutionFailure"
	IssueMissingDependencyFile IssueKind = "MissingDependencyFile"
	IssueParseFailure          IssueKind = "ParseFailure"
)

// Issue records a dependency that could not be followed
type Issue struct {
	Kind   IssueKind
	Symbol string // unresolved name
	Caller string // method key where the reference occurred
	Err    error
}

func (i Issue) Error() string {
	if i.Err != nil {
		return fmt.Sprintf("%s: %s in %s: %v", i.Kind, i.Symbol, i.Caller, i.Err)
	}
	return fmt.Sprintf("%s: %s in %s", i.Kind, i.Symbol, i.Caller)
}

// Method is a closure member with its declaring type and unit
type Method struct {
	Type     *graph.Type
	Function *graph.Function
	File     *graph.File
}

// Key returns the overload insensitive identity of a method
func (m *Method) Key() string {
	return m.Type.QualifiedName() + "#" + m.Function.Name
}

// Edge is a call site edge between two closure members
type Edge struct {
	From string
	To   string
}

// DependencyClosure holds everything a target method needs to compile standalone
type DependencyClosure struct {
	Target        *Method
	Methods       []*Method                 // discovery order, target first
	Edges         []Edge                    // caller -> callee
	Fields        []*graph.Field            // declaring type fields referenced by closure methods
	TypeFields    map[string][]*graph.Field // fields of other declaring types, keyed by qualified type name
	RequiredTypes []string                  // sorted, sanitized
	Issues        []Issue
}

// Contains returns true if the closure holds typeName#methodName
func (c *DependencyClosure) Contains(typeName, methodName string) bool {
	for _, m := range c.Methods {
		if (m.Type.Name == typeName || m.Type.QualifiedName() == typeName) && m.Function.Name == methodName {
			return true
		}
	}
	return false
}

// SameTypeMethods returns closure methods declared by the target's type, target first
func (c *DependencyClosure) SameTypeMethods() []*Method {
	var result []*Method
	for _, m := range c.Methods {
		if sameType(m.Type, c.Target.Type) {
			result = append(result, m)
		}
	}
	return result
}

// CrossTypeMethods groups methods declared outside the target type by qualified type name
func (c *DependencyClosure) CrossTypeMethods() ([]string, map[string][]*Method) {
	var order []string
	groups := map[string][]*Method{}
	for _, m := range c.Methods {
		if sameType(m.Type, c.Target.Type) {
			continue
		}
		key := m.Type.QualifiedName()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], m)
	}
	return order, groups
}

// Reachable returns the keys reachable from the target over recorded edges
func (c *DependencyClosure) Reachable() map[string]bool {
	adjacency := map[string][]string{}
	for _, edge := range c.Edges {
		adjacency[edge.From] = append(adjacency[edge.From], edge.To)
	}
	seen := map[string]bool{c.Target.Key(): true}
	queue := []string{c.Target.Key()}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// Closure computes dependency closures of target methods
type Closure struct {
	resolver *Resolver
	options  *options
}

// NewClosure creates a closure engine using resolver to cross file boundaries
func NewClosure(resolver *Resolver, opts ...Option) *Closure {
	return &Closure{resolver: resolver, options: newOptions(opts)}
}

// ComputeFor computes the closure of the first method named methodName declared in unit
func (c *Closure) ComputeFor(ctx context.Context, unit *graph.File, methodName string) (*DependencyClosure, error) {
	declaringType, target := unit.LookupMethod(methodName)
	if target == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrMethodNotFound, methodName, unit.Path)
	}
	return c.Compute(ctx, target, declaringType, unit)
}

// Compute traverses call sites breadth first starting from target
func (c *Closure) Compute(ctx context.Context, target *graph.Function, declaringType *graph.Type, unit *graph.File) (*DependencyClosure, error) {
	if target == nil || declaringType == nil || unit == nil {
		return nil, fmt.Errorf("%w: nil target", ErrMethodNotFound)
	}
	logger := c.options.logger
	root := &Method{Type: declaringType, Function: target, File: unit}
	result := &DependencyClosure{Target: root, TypeFields: map[string][]*graph.Field{}}
	visited := map[string]bool{root.Key(): true}
	edges := map[Edge]bool{}
	instantiated := map[string]bool{}
	queue := []*Method{root}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := queue[0]
		queue = queue[1:]
		result.Methods = append(result.Methods, current)
		logger.Debug("closure method", zap.String("method", current.Key()))

		for _, site := range current.Function.CallSites {
			callee := c.resolveCall(ctx, current, site, result)
			if callee == nil {
				continue
			}
			edge := Edge{From: current.Key(), To: callee.Key()}
			if !edges[edge] {
				edges[edge] = true
				result.Edges = append(result.Edges, edge)
			}
			if visited[callee.Key()] {
				continue
			}
			visited[callee.Key()] = true
			queue = append(queue, callee)
		}
		for _, inst := range current.Function.Instantiations {
			if graph.IsBuiltin(inst.TypeName) || instantiated[inst.TypeName] {
				continue
			}
			instantiated[inst.TypeName] = true
			logger.Debug("instantiation", zap.String("type", inst.TypeName), zap.String("method", current.Key()), zap.Int("line", inst.Line))
		}
	}

	result.Fields = c.requiredFields(result, declaringType)
	for _, m := range result.Methods {
		if sameType(m.Type, declaringType) {
			continue
		}
		key := m.Type.QualifiedName()
		if _, ok := result.TypeFields[key]; !ok {
			result.TypeFields[key] = c.requiredFields(result, m.Type)
		}
	}
	result.RequiredTypes = requiredTypes(target, declaringType, instantiated)
	for _, issue := range result.Issues {
		logger.Warn("partial closure", zap.String("kind", string(issue.Kind)), zap.String("symbol", issue.Symbol), zap.String("caller", issue.Caller))
	}
	return result, nil
}

func (c *Closure) resolveCall(ctx context.Context, current *Method, site *graph.CallSite, result *DependencyClosure) *Method {
	if fn := current.Type.LookupMethod(site.Name); fn != nil {
		return &Method{Type: current.Type, Function: fn, File: current.File}
	}
	receiver := strings.TrimPrefix(strings.TrimSpace(site.Receiver), "this.")
	if receiver == "" || receiver == "this" || receiver == "super" {
		result.addIssue(IssueSymbolResolution, site.Name, current, ErrSymbolResolution)
		return nil
	}
	typeName := c.receiverType(current, receiver)
	if typeName == "" {
		if isIdentifier(receiver) {
			result.addIssue(IssueSymbolResolution, receiver+"."+site.Name, current, ErrSymbolResolution)
		} else {
			c.options.logger.Debug("skipping receiver expression", zap.String("receiver", receiver), zap.String("method", site.Name))
		}
		return nil
	}
	if graph.IsBuiltin(typeName) {
		return nil
	}
	simple := graph.SanitizeTypeName(typeName)
	if typ := current.File.LookupType(graph.SimpleName(simple)); typ != nil {
		if fn := typ.LookupMethod(site.Name); fn != nil {
			return &Method{Type: typ, Function: fn, File: current.File}
		}
	}
	importPath, ok := c.resolver.Resolve(ctx, simple, current.File)
	if !ok {
		result.addIssue(IssueSymbolResolution, simple, current, ErrSymbolResolution)
		return nil
	}
	unit, err := c.resolver.Unit(ctx, importPath)
	if err != nil {
		kind := IssueMissingDependencyFile
		if errors.Is(err, java.ErrParse) {
			kind = IssueParseFailure
		}
		result.addIssue(kind, importPath, current, err)
		return nil
	}
	typ := unit.LookupType(graph.SimpleName(importPath))
	if typ == nil {
		typ = unit.PrimaryType()
	}
	if typ == nil {
		result.addIssue(IssueSymbolResolution, importPath, current, ErrSymbolResolution)
		return nil
	}
	fn := typ.LookupMethod(site.Name)
	if fn == nil {
		result.addIssue(IssueSymbolResolution, importPath+"#"+site.Name, current, ErrSymbolResolution)
		return nil
	}
	return &Method{Type: typ, Function: fn, File: unit}
}

// receiverType maps a receiver expression to a declared type name
func (c *Closure) receiverType(current *Method, receiver string) string {
	if field := current.Type.LookupField(receiver); field != nil {
		return field.TypeName
	}
	if typeName := current.Function.ParameterType(receiver); typeName != "" {
		return typeName
	}
	if typeName := current.Function.LocalType(receiver); typeName != "" {
		return typeName
	}
	if isTypeReference(receiver) {
		return receiver
	}
	return ""
}

// requiredFields matches statement name references of every closure method against fields of typ
func (c *Closure) requiredFields(result *DependencyClosure, typ *graph.Type) []*graph.Field {
	referenced := map[string]bool{}
	for _, m := range result.Methods {
		if !sameType(m.Type, typ) && !sameType(typ, result.Target.Type) {
			continue
		}
		bound := map[string]bool{}
		if c.options.scopeAwareFields {
			for _, param := range m.Function.Parameters {
				bound[param.Name] = true
			}
		}
		for _, stmt := range m.Function.Statements {
			if c.options.scopeAwareFields {
				for _, binding := range stmt.Bindings {
					bound[binding.Name] = true
				}
			}
			for _, name := range stmt.Names {
				if !bound[name] {
					referenced[name] = true
				}
			}
			for _, name := range stmt.FieldRefs {
				referenced[name] = true
			}
		}
	}
	var fields []*graph.Field
	for _, field := range typ.Fields {
		if referenced[field.Name] {
			fields = append(fields, field)
		}
	}
	return fields
}

func requiredTypes(target *graph.Function, declaringType *graph.Type, instantiated map[string]bool) []string {
	unique := map[string]bool{}
	add := func(typeName string) {
		if graph.IsBuiltin(typeName) {
			return
		}
		unique[graph.SanitizeTypeName(typeName)] = true
	}
	add(target.ResultType)
	for _, param := range target.Parameters {
		add(param.TypeName)
	}
	// injected field types are a subset of the declaring type field types
	for _, field := range declaringType.Fields {
		add(field.TypeName)
	}
	for typeName := range instantiated {
		add(typeName)
	}
	result := make([]string, 0, len(unique))
	for typeName := range unique {
		result = append(result, typeName)
	}
	sort.Strings(result)
	return result
}

func (c *DependencyClosure) addIssue(kind IssueKind, symbol string, caller *Method, err error) {
	c.Issues = append(c.Issues, Issue{Kind: kind, Symbol: symbol, Caller: caller.Key(), Err: err})
}

// sameType compares declarations by qualified name, the same type may be parsed more than once
func sameType(a, b *graph.Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.QualifiedName() == b.QualifiedName()
}

func isIdentifier(expr string) bool {
	if expr == "" {
		return false
	}
	for i, r := range expr {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// isTypeReference returns true for Type or pkg.Type receivers used in static calls
func isTypeReference(expr string) bool {
	parts := strings.Split(expr, ".")
	for _, part := range parts {
		if !isIdentifier(part) {
			return false
		}
	}
	last := []rune(parts[len(parts)-1])
	return unicode.IsUpper(last[0])
}

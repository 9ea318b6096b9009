package organ

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/scalpel/analyzer"
	"github.com/viant/scalpel/inspector/graph"
	"github.com/viant/scalpel/inspector/java"
)

// ErrInvalidState is returned when an organ has no addressable lines
var ErrInvalidState = errors.New("invalid state")

// Organ is a materialized closure addressable as 1-indexed source lines
type Organ struct {
	TypeName        string
	Package         string
	Lines           []string // Lines[0] holds line 1
	DeclarationLine int      // line holding the type declaration keyword, 0 when unknown
}

// Size returns the number of addressable lines
func (o *Organ) Size() int {
	return len(o.Lines)
}

// Universe returns all line numbers 1..N
func (o *Organ) Universe() []int {
	result := make([]int, len(o.Lines))
	for i := range result {
		result[i] = i + 1
	}
	return result
}

// Line returns the text of a 1-indexed line
func (o *Organ) Line(number int) string {
	if number < 1 || number > len(o.Lines) {
		return ""
	}
	return o.Lines[number-1]
}

// FileName returns the compilation unit name of the organ
func (o *Organ) FileName() string {
	return o.TypeName + ".java"
}

// Materialize renders the selected lines in ascending order
func (o *Organ) Materialize(lines []int) string {
	sorted := append([]int(nil), lines...)
	sort.Ints(sorted)
	builder := strings.Builder{}
	for _, number := range sorted {
		if number < 1 || number > len(o.Lines) {
			continue
		}
		builder.WriteString(o.Lines[number-1])
		builder.WriteByte('\n')
	}
	return builder.String()
}

// String renders the whole organ
func (o *Organ) String() string {
	return o.Materialize(o.Universe())
}

// FromClosure renders the declaring type of a closure with its required fields and same type methods
func FromClosure(closure *analyzer.DependencyClosure) (*Organ, error) {
	if closure == nil || closure.Target == nil {
		return nil, fmt.Errorf("%w: empty closure", ErrInvalidState)
	}
	target := closure.Target
	var functions []*graph.Function
	for _, m := range closure.SameTypeMethods() {
		functions = append(functions, m.Function)
	}
	lines, declaration := RenderType(target.File, target.Type, closure.Fields, functions)
	return &Organ{
		TypeName:        target.Type.Name,
		Package:         target.File.Package,
		Lines:           lines,
		DeclarationLine: declaration,
	}, nil
}

// RenderType renders a standalone compilation unit and returns its lines and the declaration line
func RenderType(unit *graph.File, typ *graph.Type, fields []*graph.Field, functions []*graph.Function) ([]string, int) {
	var lines []string
	if unit.Package != "" {
		lines = append(lines, "package "+unit.Package+";", "")
	}
	for _, imp := range unit.Imports {
		lines = append(lines, imp.String())
	}
	if len(unit.Imports) > 0 {
		lines = append(lines, "")
	}
	headerStart := len(lines)
	lines = append(lines, strings.Split(typ.Header, "\n")...)
	declaration := headerStart + 1
	if offset := declarationOffset(lines[headerStart:], typ.Name); offset >= 0 {
		declaration = headerStart + offset + 1
	}
	rendered := map[int]bool{}
	for _, field := range fields {
		if field.Location == nil || rendered[field.Location.Start] {
			continue
		}
		rendered[field.Location.Start] = true
		lines = append(lines, DeclarationLines(unit, field.Location)...)
	}
	for _, fn := range functions {
		if fn.Location == nil {
			continue
		}
		lines = append(lines, "")
		lines = append(lines, DeclarationLines(unit, fn.Location)...)
	}
	lines = append(lines, "}")
	return lines, declaration
}

// DeclarationLines returns the source lines spanned by a declaration, keeping original indentation
func DeclarationLines(unit *graph.File, location *graph.Location) []string {
	if len(unit.Source) == 0 {
		raw := strings.Split(location.Raw, "\n")
		raw[0] = "    " + raw[0]
		return raw
	}
	all := strings.Split(string(unit.Source), "\n")
	from, to := location.Line, location.EndLine
	if from < 1 || to > len(all) || from > to {
		return strings.Split(location.Raw, "\n")
	}
	return append([]string(nil), all[from-1:to]...)
}

// FromSource builds an organ from staged source text
func FromSource(typeName string, src []byte) (*Organ, error) {
	text := strings.TrimRight(string(src), "\n")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s has no lines", ErrInvalidState, typeName)
	}
	ret := &Organ{TypeName: typeName, Lines: strings.Split(text, "\n")}
	startLine := 1
	if aFile, err := java.NewInspector(nil).InspectSource(src); err == nil {
		ret.Package = aFile.Package
		typ := aFile.LookupType(typeName)
		if typ == nil {
			typ = aFile.PrimaryType()
		}
		if typ != nil {
			ret.TypeName = typ.Name
			startLine = typ.Location.Line
		}
	}
	if offset := declarationOffset(ret.Lines[startLine-1:], ret.TypeName); offset >= 0 {
		ret.DeclarationLine = startLine + offset
	}
	return ret, nil
}

// Load reads a staged organ file
func Load(ctx context.Context, fs afs.Service, URL string) (*Organ, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load organ %s: %w", URL, err)
	}
	typeName := strings.TrimSuffix(path.Base(URL), ".java")
	return FromSource(typeName, data)
}

func declarationOffset(lines []string, typeName string) int {
	expr := regexp.MustCompile(`\b(class|interface|enum|record)\s+` + regexp.QuoteMeta(typeName) + `\b`)
	for i, line := range lines {
		if expr.MatchString(line) {
			return i
		}
	}
	return -1
}

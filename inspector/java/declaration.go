package java

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/scalpel/inspector/graph"
)

// parsePackageDeclaration extracts the package name from a Java source file
func parsePackageDeclaration(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "scoped_identifier", "identifier":
			return child.Content(source)
		}
	}
	return ""
}

// parseImportDeclaration extracts an explicit or wildcard import
func parseImportDeclaration(node *sitter.Node, source []byte) (graph.Import, bool) {
	var imp graph.Import
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "static":
			imp.IsStatic = true
		case "asterisk":
			imp.IsWildcard = true
		case "scoped_identifier", "identifier":
			imp.Path = child.Content(source)
		}
	}
	if imp.Path == "" {
		return imp, false
	}
	return imp, true
}

// parseTypeDeclaration extracts class, interface, enum or record information
func parseTypeDeclaration(node *sitter.Node, source []byte) *graph.Type {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	aType := &graph.Type{
		Name:       nameNode.Content(source),
		Kind:       typeKind(node.Type()),
		IsExported: hasModifier(node, "public"),
		Location:   location(node, source),
	}
	aType.Comment, aType.Annotations = extractDocumentation(node, source)
	aType.Extends, aType.Implements = superTypes(node, source)

	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		aType.Header = node.Content(source)
		return aType
	}
	aType.Header = string(source[node.StartByte() : bodyNode.StartByte()+1])
	for i := 0; i < int(bodyNode.NamedChildCount()); i++ {
		child := bodyNode.NamedChild(i)
		switch child.Type() {
		case "field_declaration", "constant_declaration":
			for _, field := range parseFieldDeclaration(child, source) {
				aType.AddField(field)
			}
		case "method_declaration":
			if method := parseMethodDeclaration(child, source); method != nil {
				aType.AddMethod(method)
			}
		case "constructor_declaration", "compact_constructor_declaration":
			if constructor := parseConstructorDeclaration(child, source, aType.Name); constructor != nil {
				aType.AddMethod(constructor)
			}
		case "enum_body_declarations":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				member := child.NamedChild(j)
				switch member.Type() {
				case "field_declaration":
					for _, field := range parseFieldDeclaration(member, source) {
						aType.AddField(field)
					}
				case "method_declaration":
					if method := parseMethodDeclaration(member, source); method != nil {
						aType.AddMethod(method)
					}
				}
			}
		}
	}
	return aType
}

func typeKind(nodeType string) graph.TypeKind {
	switch nodeType {
	case "interface_declaration":
		return graph.KindInterface
	case "enum_declaration":
		return graph.KindEnum
	case "record_declaration":
		return graph.KindRecord
	case "annotation_type_declaration":
		return graph.KindAnnotation
	}
	return graph.KindClass
}

// parseFieldDeclaration extracts one field per declarator
func parseFieldDeclaration(node *sitter.Node, source []byte) []*graph.Field {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}
	_, annotations := extractDocumentation(node, source)
	isStatic := hasModifier(node, "static")
	isFinal := hasModifier(node, "final")
	var fields []*graph.Field
	for i := 0; i < int(node.NamedChildCount()); i++ {
		declarator := node.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		fields = append(fields, &graph.Field{
			Name:        nameNode.Content(source),
			TypeName:    typeNode.Content(source),
			Annotations: annotations,
			IsStatic:    isStatic,
			IsConstant:  isStatic && isFinal,
			Location:    location(node, source),
		})
	}
	return fields
}

// parseMethodDeclaration extracts method information from a type body
func parseMethodDeclaration(node *sitter.Node, source []byte) *graph.Function {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	method := &graph.Function{
		Name:       nameNode.Content(source),
		IsStatic:   hasModifier(node, "static"),
		IsExported: hasModifier(node, "public"),
		Location:   location(node, source),
		Parameters: parseParameters(node.ChildByFieldName("parameters"), source),
	}
	_, method.Annotations = extractDocumentation(node, source)
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		method.ResultType = typeNode.Content(source)
	}
	method.Signature = formatMethodSignature(method)
	if bodyNode := node.ChildByFieldName("body"); bodyNode != nil {
		method.Body = location(bodyNode, source)
		inspectBody(method, bodyNode, source)
	}
	return method
}

// parseConstructorDeclaration extracts constructor information from a class
func parseConstructorDeclaration(node *sitter.Node, source []byte, className string) *graph.Function {
	constructor := &graph.Function{
		Name:          className,
		IsConstructor: true,
		IsExported:    hasModifier(node, "public"),
		Location:      location(node, source),
		Parameters:    parseParameters(node.ChildByFieldName("parameters"), source),
	}
	_, constructor.Annotations = extractDocumentation(node, source)
	constructor.Signature = formatMethodSignature(constructor)
	if bodyNode := node.ChildByFieldName("body"); bodyNode != nil {
		constructor.Body = location(bodyNode, source)
		inspectBody(constructor, bodyNode, source)
	}
	return constructor
}

func parseParameters(node *sitter.Node, source []byte) []*graph.Parameter {
	if node == nil {
		return nil
	}
	var params []*graph.Parameter
	for i := 0; i < int(node.NamedChildCount()); i++ {
		paramNode := node.NamedChild(i)
		switch paramNode.Type() {
		case "formal_parameter":
			typeNode := paramNode.ChildByFieldName("type")
			nameNode := paramNode.ChildByFieldName("name")
			if typeNode == nil || nameNode == nil {
				continue
			}
			params = append(params, &graph.Parameter{
				Name:     nameNode.Content(source),
				TypeName: typeNode.Content(source),
			})
		case "spread_parameter":
			var typeName, name string
			for j := 0; j < int(paramNode.NamedChildCount()); j++ {
				child := paramNode.NamedChild(j)
				switch child.Type() {
				case "variable_declarator":
					if nameNode := child.ChildByFieldName("name"); nameNode != nil {
						name = nameNode.Content(source)
					}
				case "modifiers":
				default:
					if typeName == "" {
						typeName = child.Content(source)
					}
				}
			}
			if name != "" {
				params = append(params, &graph.Parameter{Name: name, TypeName: typeName, Variadic: true})
			}
		}
	}
	return params
}

// formatMethodSignature creates a signature including return and parameter types
func formatMethodSignature(method *graph.Function) string {
	var signature strings.Builder
	if method.ResultType != "" {
		signature.WriteString(method.ResultType)
		signature.WriteString(" ")
	}
	signature.WriteString(method.Name)
	signature.WriteString("(")
	for i, param := range method.Parameters {
		if i > 0 {
			signature.WriteString(", ")
		}
		signature.WriteString(param.TypeName)
		if param.Variadic {
			signature.WriteString("...")
		}
		signature.WriteString(" ")
		signature.WriteString(param.Name)
	}
	signature.WriteString(")")
	return signature.String()
}

// hasModifier checks if a declaration carries the given modifier keyword
func hasModifier(node *sitter.Node, modifier string) bool {
	modifiersNode := modifiersOf(node)
	if modifiersNode == nil {
		return false
	}
	for i := 0; i < int(modifiersNode.ChildCount()); i++ {
		if modifiersNode.Child(i).Type() == modifier {
			return true
		}
	}
	return false
}

func modifiersOf(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "modifiers" {
			return child
		}
	}
	return nil
}

func location(node *sitter.Node, source []byte) *graph.Location {
	return &graph.Location{
		Start:   int(node.StartByte()),
		End:     int(node.EndByte()),
		Line:    int(node.StartPoint().Row) + 1,
		EndLine: int(node.EndPoint().Row) + 1,
		Raw:     node.Content(source),
	}
}

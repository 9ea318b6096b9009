package java

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/scalpel/inspector/graph"
)

// inspectBody records call sites, instantiations and per statement references of a method body
func inspectBody(fn *graph.Function, body *sitter.Node, source []byte) {
	walk(body, func(node *sitter.Node) {
		switch node.Type() {
		case "method_invocation":
			nameNode := node.ChildByFieldName("name")
			if nameNode == nil {
				return
			}
			site := &graph.CallSite{Name: nameNode.Content(source), Line: line(node)}
			if object := node.ChildByFieldName("object"); object != nil {
				site.Receiver = object.Content(source)
			}
			fn.CallSites = append(fn.CallSites, site)
		case "object_creation_expression":
			if typeNode := node.ChildByFieldName("type"); typeNode != nil {
				fn.Instantiations = append(fn.Instantiations, &graph.Instantiation{
					TypeName: graph.SanitizeTypeName(typeNode.Content(source)),
					Line:     line(node),
				})
			}
		}
	})
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmtNode := body.NamedChild(i)
		if isComment(stmtNode) {
			continue
		}
		stmt := &graph.Statement{Line: line(stmtNode)}
		collectStatement(stmt, stmtNode, source)
		fn.Statements = append(fn.Statements, stmt)
	}
}

func collectStatement(stmt *graph.Statement, root *sitter.Node, source []byte) {
	seen := map[string]bool{}
	walk(root, func(node *sitter.Node) {
		switch node.Type() {
		case "local_variable_declaration", "resource":
			typeName := ""
			if typeNode := node.ChildByFieldName("type"); typeNode != nil {
				typeName = typeNode.Content(source)
			}
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				stmt.Bindings = append(stmt.Bindings, graph.Binding{Name: nameNode.Content(source), TypeName: typeName})
			}
			for j := 0; j < int(node.NamedChildCount()); j++ {
				declarator := node.NamedChild(j)
				if declarator.Type() != "variable_declarator" {
					continue
				}
				if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
					stmt.Bindings = append(stmt.Bindings, graph.Binding{Name: nameNode.Content(source), TypeName: typeName})
				}
			}
		case "enhanced_for_statement":
			typeName := ""
			if typeNode := node.ChildByFieldName("type"); typeNode != nil {
				typeName = typeNode.Content(source)
			}
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				stmt.Bindings = append(stmt.Bindings, graph.Binding{Name: nameNode.Content(source), TypeName: typeName})
			}
		case "catch_formal_parameter":
			typeName := ""
			for j := 0; j < int(node.NamedChildCount()); j++ {
				if child := node.NamedChild(j); child.Type() == "catch_type" {
					typeName = child.Content(source)
				}
			}
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				stmt.Bindings = append(stmt.Bindings, graph.Binding{Name: nameNode.Content(source), TypeName: typeName})
			}
		case "lambda_expression":
			stmt.Bindings = append(stmt.Bindings, lambdaBindings(node, source)...)
		case "field_access":
			object := node.ChildByFieldName("object")
			field := node.ChildByFieldName("field")
			if object != nil && field != nil && object.Type() == "this" {
				stmt.FieldRefs = append(stmt.FieldRefs, field.Content(source))
			}
		case "identifier":
			if !isReference(node) {
				return
			}
			name := node.Content(source)
			if !seen[name] {
				seen[name] = true
				stmt.Names = append(stmt.Names, name)
			}
		}
	})
}

func lambdaBindings(node *sitter.Node, source []byte) []graph.Binding {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	if params.Type() == "identifier" {
		return []graph.Binding{{Name: params.Content(source)}}
	}
	var result []graph.Binding
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		switch param.Type() {
		case "identifier":
			result = append(result, graph.Binding{Name: param.Content(source)})
		case "formal_parameter":
			nameNode := param.ChildByFieldName("name")
			typeNode := param.ChildByFieldName("type")
			if nameNode == nil {
				continue
			}
			binding := graph.Binding{Name: nameNode.Content(source)}
			if typeNode != nil {
				binding.TypeName = typeNode.Content(source)
			}
			result = append(result, binding)
		}
	}
	return result
}

// isReference returns true when an identifier is a bare name use rather than a declaration or member selector
func isReference(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return true
	}
	switch parent.Type() {
	case "method_invocation":
		return !isFieldChild(parent, "name", node)
	case "field_access":
		return !isFieldChild(parent, "field", node)
	case "variable_declarator", "enhanced_for_statement", "catch_formal_parameter", "formal_parameter", "resource":
		return !isFieldChild(parent, "name", node)
	case "lambda_expression":
		return !isFieldChild(parent, "parameters", node)
	case "inferred_parameters", "scoped_identifier", "labeled_statement",
		"break_statement", "continue_statement", "method_reference":
		return false
	}
	return true
}

func isFieldChild(parent *sitter.Node, field string, node *sitter.Node) bool {
	child := parent.ChildByFieldName(field)
	return child != nil && child.StartByte() == node.StartByte() && child.EndByte() == node.EndByte()
}

func walk(node *sitter.Node, visit func(node *sitter.Node)) {
	visit(node)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walk(node.NamedChild(i), visit)
	}
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

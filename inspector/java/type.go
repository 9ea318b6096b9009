package java

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// superTypes extracts extended and implemented type names of a declaration
func superTypes(node *sitter.Node, source []byte) ([]string, []string) {
	var extends, implements []string
	if superclass := node.ChildByFieldName("superclass"); superclass != nil {
		extends = append(extends, typeNames(superclass, source)...)
	}
	if interfaces := node.ChildByFieldName("interfaces"); interfaces != nil {
		if node.Type() == "interface_declaration" {
			extends = append(extends, typeNames(interfaces, source)...)
		} else {
			implements = append(implements, typeNames(interfaces, source)...)
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "extends_interfaces" {
			extends = append(extends, typeNames(child, source)...)
		}
	}
	return extends, implements
}

// typeNames collects the outermost type references under node
func typeNames(node *sitter.Node, source []byte) []string {
	var result []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "type_identifier", "generic_type", "scoped_type_identifier":
			result = append(result, child.Content(source))
		case "type_list":
			result = append(result, typeNames(child, source)...)
		}
	}
	return result
}

// isTypeNode returns true for nodes denoting a type reference
func isTypeNode(node *sitter.Node) bool {
	switch node.Type() {
	case "type_identifier", "generic_type", "scoped_type_identifier", "array_type",
		"integral_type", "floating_point_type", "boolean_type", "void_type":
		return true
	}
	return false
}

package java

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Identifiers returns the sorted distinct identifiers of a possibly incomplete source fragment
func Identifiers(src []byte) []string {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()
	unique := map[string]bool{}
	walk(tree.RootNode(), func(node *sitter.Node) {
		switch node.Type() {
		case "identifier", "type_identifier":
			unique[node.Content(src)] = true
		}
	})
	result := make([]string, 0, len(unique))
	for name := range unique {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

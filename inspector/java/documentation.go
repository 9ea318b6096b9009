package java

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// extractDocumentation extracts the leading comment and the annotations of a declaration
func extractDocumentation(node *sitter.Node, source []byte) (string, []string) {
	var comments []string
	for prev := node.PrevSibling(); prev != nil && isComment(prev); prev = prev.PrevSibling() {
		comments = append([]string{cleanCommentMarkers(prev.Content(source))}, comments...)
	}
	var annotations []string
	if modifiersNode := modifiersOf(node); modifiersNode != nil {
		for i := 0; i < int(modifiersNode.NamedChildCount()); i++ {
			modifier := modifiersNode.NamedChild(i)
			if modifier.Type() == "marker_annotation" || modifier.Type() == "annotation" {
				annotations = append(annotations, modifier.Content(source))
			}
		}
	}
	return strings.Join(comments, "\n"), annotations
}

func isComment(node *sitter.Node) bool {
	switch node.Type() {
	case "comment", "line_comment", "block_comment":
		return true
	}
	return false
}

// cleanCommentMarkers removes comment markers from a comment string
func cleanCommentMarkers(comment string) string {
	comment = strings.TrimSpace(comment)
	if strings.HasPrefix(comment, "/*") && strings.HasSuffix(comment, "*/") {
		comment = comment[2 : len(comment)-2]
		comment = strings.TrimPrefix(comment, "*")
	}
	comment = strings.TrimPrefix(comment, "//")
	// Javadoc continuation lines
	lines := strings.Split(comment, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") {
			lines[i] = strings.TrimSpace(line[1:])
		} else {
			lines[i] = line
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

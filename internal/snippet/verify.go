package snippet

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// Issue is a syntax problem found in a snippet body.
type Issue struct {
	Snippet string
	Line    int
	Detail  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d: %s", i.Snippet, i.Line, i.Detail)
}

// Verify syntax-checks a snippet. Go snippets are parsed with tree-sitter
// and every ERROR or MISSING node in the tree becomes an issue. Languages
// without a grammar pass verification unchecked.
func Verify(ctx context.Context, s Snippet) ([]Issue, error) {
	if s.Lang != "go" {
		return nil, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, []byte(s.Body))
	if err != nil {
		return nil, fmt.Errorf("parse snippet %s: %w", s.Name, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}

	var issues []Issue
	collectSyntaxIssues(root, s.Name, &issues)
	return issues, nil
}

// VerifyAll checks every registered snippet and returns the issues grouped
// in name order.
func (r *Registry) VerifyAll(ctx context.Context) ([]Issue, error) {
	var all []Issue
	for _, name := range r.Names() {
		issues, err := Verify(ctx, r.snippets[name])
		if err != nil {
			return nil, err
		}
		all = append(all, issues...)
	}
	return all, nil
}

func collectSyntaxIssues(node *sitter.Node, name string, out *[]Issue) {
	if node.IsError() {
		*out = append(*out, Issue{
			Snippet: name,
			Line:    int(node.StartPoint().Row) + 1,
			Detail:  "syntax error",
		})
		return
	}
	if node.IsMissing() {
		*out = append(*out, Issue{
			Snippet: name,
			Line:    int(node.StartPoint().Row) + 1,
			Detail:  fmt.Sprintf("missing %s", node.Type()),
		})
		return
	}
	if !node.HasError() {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectSyntaxIssues(node.Child(i), name, out)
	}
}

// Package reader builds trees and node maps from their serialized forms.
//
// The text tree format has one node name per line; the number of leading
// tabs is the depth of the node and the first line is the root. Node ids are
// handed out in line order, which is pre-order.
//
// The YAML tree format is a nested document of name/children mappings.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/taxmap/taxerr"
	"github.com/signadot/taxmap/tree"
)

type TreeReader interface {
	Name() string
	ReadTree(r io.Reader, name string) (*tree.Tree, error)
}

var TreeFormats = []string{"text", "yaml"}

func NewTreeReader(format string) (TreeReader, error) {
	switch format {
	case "", "text":
		return TextTree{}, nil
	case "yaml":
		return YAMLTree{}, nil
	}
	return nil, fmt.Errorf("unknown tree format %q (want one of %v)", format, TreeFormats)
}

// ReadTreeFile reads the tree stored at path and names it after the file.
func ReadTreeFile(tr TreeReader, path string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := tr.ReadTree(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

type TextTree struct{}

func (TextTree) Name() string { return "text" }

func (TextTree) ReadTree(r io.Reader, name string) (*tree.Tree, error) {
	t := tree.NewTree(name)
	// stack[d] is the last node read at depth d
	var stack []*tree.Node
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), " \r")
		label := strings.TrimLeft(text, "\t")
		if strings.TrimSpace(label) == "" {
			continue
		}
		depth := len(text) - len(label)
		label = strings.TrimSpace(label)
		switch {
		case depth == 0 && t.HasRoot():
			return nil, fmt.Errorf("line %d: second root %q", line, label)
		case depth == 0:
			stack = append(stack[:0], t.CreateRoot(label))
			continue
		case !t.HasRoot():
			return nil, fmt.Errorf("line %d: %q is indented before any root", line, label)
		case depth > len(stack):
			return nil, fmt.Errorf("line %d: %q is indented %d levels under a node at depth %d", line, label, depth, len(stack)-1)
		}
		n := stack[depth-1].CreateChild(label)
		stack = append(stack[:depth], n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

type yamlNode struct {
	Name     string      `yaml:"name"`
	Children []*yamlNode `yaml:"children,omitempty"`
}

type YAMLTree struct{}

func (YAMLTree) Name() string { return "yaml" }

func (YAMLTree) ReadTree(r io.Reader, name string) (*tree.Tree, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	t := tree.NewTree(name)
	if strings.TrimSpace(string(d)) == "" {
		return t, nil
	}
	root := &yamlNode{}
	if err := yaml.Unmarshal(d, root); err != nil {
		return nil, fmt.Errorf("error decoding yaml tree: %w", err)
	}
	if root.Name == "" {
		return nil, taxerr.Structuralf("root has no name")
	}
	build(t.CreateRoot(root.Name), root.Children)
	return t, nil
}

func build(p *tree.Node, kids []*yamlNode) {
	for _, k := range kids {
		if k == nil {
			continue
		}
		build(p.CreateChild(k.Name), k.Children)
	}
}

// Package writer serializes trees and node maps. The text and YAML forms
// are the ones package reader accepts.
package writer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/structure"
	"github.com/signadot/taxmap/tree"
)

type TreeWriter interface {
	Name() string
	WriteTree(w io.Writer, t *tree.Tree) error
}

type MapWriter interface {
	Name() string
	WriteMap(w io.Writer, nmap *structure.NodeMap) error
}

var Formats = []string{"text", "yaml"}

// NewTreeWriter returns the tree writer for format. Colors only affect the
// text map writer.
func NewTreeWriter(format string) (TreeWriter, error) {
	switch format {
	case "", "text":
		return TextTree{}, nil
	case "yaml":
		return YAMLTree{}, nil
	}
	return nil, fmt.Errorf("unknown tree format %q (want one of %v)", format, Formats)
}

func NewMapWriter(format string, colors *Colors) (MapWriter, error) {
	switch format {
	case "", "text":
		return TextMap{Colors: colors}, nil
	case "yaml":
		return YAMLMap{}, nil
	}
	return nil, fmt.Errorf("unknown map format %q (want one of %v)", format, Formats)
}

type TextTree struct{}

func (TextTree) Name() string { return "text" }

func (TextTree) WriteTree(w io.Writer, t *tree.Tree) error {
	for _, n := range t.Nodes() {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("\t", n.Level()), n.Name); err != nil {
			return err
		}
	}
	return nil
}

type yamlConcept struct {
	Token  string   `yaml:"token"`
	Lemma  string   `yaml:"lemma"`
	Senses []string `yaml:"senses,omitempty"`
}

type yamlNode struct {
	Name     string        `yaml:"name"`
	ID       string        `yaml:"id,omitempty"`
	Label    string        `yaml:"label,omitempty"`
	Node     string        `yaml:"node,omitempty"`
	Concepts []yamlConcept `yaml:"concepts,omitempty"`
	Children []*yamlNode   `yaml:"children,omitempty"`
}

// YAMLTree writes the hierarchy with node ids and, once computed, the
// label concepts and predicates of each node.
type YAMLTree struct{}

func (YAMLTree) Name() string { return "yaml" }

func (YAMLTree) WriteTree(w io.Writer, t *tree.Tree) error {
	if !t.HasRoot() {
		return nil
	}
	d, err := yaml.Marshal(toYAML(t.Root()))
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

func toYAML(n *tree.Node) *yamlNode {
	res := &yamlNode{Name: n.Name, ID: n.ID}
	if n.LabelPredicate != nil {
		res.Label = n.LabelPredicate.String()
	}
	if n.NodePredicate != nil {
		res.Node = n.NodePredicate.String()
	}
	for _, c := range n.Concepts {
		res.Concepts = append(res.Concepts, yamlConcept{
			Token:  c.Token,
			Lemma:  c.Lemma,
			Senses: senses(c.Senses),
		})
	}
	for i := range n.ChildCount() {
		res.Children = append(res.Children, toYAML(n.Child(i)))
	}
	return res
}

func senses(ss []ling.Sense) []string {
	var res []string
	for _, s := range ss {
		res = append(res, s.String())
	}
	return res
}

// TextMap writes one link per line, source path, relation and target path
// separated by tabs, after a similarity comment.
type TextMap struct {
	Colors *Colors
}

func (TextMap) Name() string { return "text" }

func (m TextMap) WriteMap(w io.Writer, nmap *structure.NodeMap) error {
	c := m.Colors
	sep := c.attr(SepColor, "\t")
	head := "# similarity " + strconv.FormatFloat(nmap.Similarity(), 'g', -1, 64)
	if _, err := fmt.Fprintln(w, c.attr(CommentColor, head)); err != nil {
		return err
	}
	for _, in := range nmap.Instances() {
		_, err := fmt.Fprintf(w, "%s%s%s%s%s\n",
			c.attr(SourceColor, in.Source.PathString()),
			sep,
			c.relation(in.Relation),
			sep,
			c.attr(TargetColor, in.Target.PathString()))
		if err != nil {
			return err
		}
	}
	return nil
}

type yamlLink struct {
	Source   string `yaml:"source"`
	Relation string `yaml:"relation"`
	Target   string `yaml:"target"`
}

type yamlMap struct {
	Source     string     `yaml:"source"`
	Target     string     `yaml:"target"`
	Similarity float64    `yaml:"similarity"`
	Links      []yamlLink `yaml:"links"`
}

type YAMLMap struct{}

func (YAMLMap) Name() string { return "yaml" }

func (YAMLMap) WriteMap(w io.Writer, nmap *structure.NodeMap) error {
	doc := &yamlMap{Similarity: nmap.Similarity(), Links: []yamlLink{}}
	if s := nmap.SourceObjects(); len(s) > 0 {
		doc.Source = s[0].Tree().Name
	}
	if t := nmap.TargetObjects(); len(t) > 0 {
		doc.Target = t[0].Tree().Name
	}
	for _, in := range nmap.Instances() {
		doc.Links = append(doc.Links, yamlLink{
			Source:   in.Source.PathString(),
			Relation: in.Relation.String(),
			Target:   in.Target.PathString(),
		})
	}
	d, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/structure"
	"github.com/signadot/taxmap/tree"
)

// MapReader loads a node map between two trees. Links name nodes by their
// "/"-separated path from the root. A link given target first is turned
// around, so the source side of every stored link is a node of src.
//
// Reading marks src as the source tree and tgt as the target tree.
type MapReader interface {
	Name() string
	ReadMap(r io.Reader, src, tgt *tree.Tree, b relmap.Backing) (*structure.NodeMap, error)
}

var MapFormats = []string{"text", "yaml"}

func NewMapReader(format string) (MapReader, error) {
	switch format {
	case "", "text":
		return TextMap{}, nil
	case "yaml":
		return YAMLMap{}, nil
	}
	return nil, fmt.Errorf("unknown map format %q (want one of %v)", format, MapFormats)
}

func ReadMapFile(mr MapReader, path string, src, tgt *tree.Tree, b relmap.Backing) (*structure.NodeMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := mr.ReadMap(f, src, tgt, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

type builder struct {
	src, tgt *tree.Tree
	m        *structure.NodeMap
}

func newBuilder(src, tgt *tree.Tree, b relmap.Backing) *builder {
	src.MarkSource(true)
	tgt.MarkSource(false)
	return &builder{src: src, tgt: tgt, m: relmap.New(src.Nodes(), tgt.Nodes(), b)}
}

func (b *builder) link(a, rel, c string) error {
	r, err := relmap.ParseRelation(rel)
	if err != nil {
		return err
	}
	pa, pc := splitPath(a), splitPath(c)
	x, y := b.src.Lookup(pa), b.tgt.Lookup(pc)
	if x == nil || y == nil {
		x, y = b.tgt.Lookup(pa), b.src.Lookup(pc)
	}
	if x == nil || y == nil {
		return fmt.Errorf("no node pair for %q %q", a, c)
	}
	in := relmap.InverseInstance(x, y, r)
	b.m.Set(in.Source, in.Target, in.Relation)
	return nil
}

func splitPath(p string) []string {
	return strings.Split(strings.TrimSpace(p), "/")
}

// TextMap reads lines of the form
//
//	Vehicle/Car<TAB>=<TAB>Vehicle/Automobile
//
// Lines starting with '#' are comments, except "# similarity <value>".
type TextMap struct{}

func (TextMap) Name() string { return "text" }

func (TextMap) ReadMap(r io.Reader, src, tgt *tree.Tree, bk relmap.Backing) (*structure.NodeMap, error) {
	b := newBuilder(src, tgt, bk)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(text, "#"); ok {
			fields := strings.Fields(rest)
			if len(fields) == 2 && fields[0] == "similarity" {
				v, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				b.m.SetSimilarity(v)
			}
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: want 3 tab separated fields, got %d", line, len(fields))
		}
		if err := b.link(fields[0], strings.TrimSpace(fields[1]), fields[2]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return b.m, nil
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

func (YAMLMap) ReadMap(r io.Reader, src, tgt *tree.Tree, bk relmap.Backing) (*structure.NodeMap, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := &yamlMap{}
	if err := yaml.Unmarshal(d, doc); err != nil {
		return nil, fmt.Errorf("error decoding yaml map: %w", err)
	}
	b := newBuilder(src, tgt, bk)
	for i := range doc.Links {
		l := &doc.Links[i]
		if err := b.link(l.Source, l.Relation, l.Target); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
	}
	b.m.SetSimilarity(doc.Similarity)
	return b.m, nil
}

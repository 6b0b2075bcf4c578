// Package lexicon provides lexical oracles backed by a synset dictionary,
// either held in memory or stored in SQLite.
package lexicon

import (
	"fmt"
	"os"
	"slices"
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
	"github.com/goccy/go-yaml"
	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/sense"
)

// Synset is one dictionary meaning and the words that express it. Related
// synsets are referenced by id; ids are unique across parts of speech.
type Synset struct {
	ID    int64    `yaml:"id"`
	POS   string   `yaml:"pos"`
	Words []string `yaml:"words"`

	Hypernyms []int64 `yaml:"hypernyms,omitempty"`
	// Meronyms are the parts of this synset.
	Meronyms []int64 `yaml:"meronyms,omitempty"`
	// Holonyms are the wholes this synset is a part of.
	Holonyms []int64 `yaml:"holonyms,omitempty"`
	Antonyms []int64 `yaml:"antonyms,omitempty"`
	Disjoint []int64 `yaml:"disjoint,omitempty"`
}

func (s *Synset) Sense() ling.Sense {
	return ling.Sense{POS: s.POS[0], ID: s.ID}
}

type file struct {
	Synsets []Synset `yaml:"synsets"`
}

// Dictionary is an in-memory Oracle. It is read only once built and safe
// for concurrent use.
type Dictionary struct {
	synsets []Synset
	byID    map[int64]*Synset
	words   map[string][]ling.Sense
	stems   map[string]string

	parts  map[int64][]int64
	wholes map[int64][]int64
}

var _ sense.HypernymOracle = (*Dictionary)(nil)

func NewDictionary(synsets []Synset) (*Dictionary, error) {
	d := &Dictionary{
		synsets: slices.Clone(synsets),
		byID:    map[int64]*Synset{},
		words:   map[string][]ling.Sense{},
		stems:   map[string]string{},
		parts:   map[int64][]int64{},
		wholes:  map[int64][]int64{},
	}
	for i := range d.synsets {
		s := &d.synsets[i]
		if len(s.POS) != 1 || !ling.ValidPOS(s.POS[0]) {
			return nil, fmt.Errorf("synset %d: invalid part of speech %q", s.ID, s.POS)
		}
		if _, dup := d.byID[s.ID]; dup {
			return nil, fmt.Errorf("synset %d: duplicate id", s.ID)
		}
		d.byID[s.ID] = s
	}
	for i := range d.synsets {
		s := &d.synsets[i]
		for _, refs := range [][]int64{s.Hypernyms, s.Meronyms, s.Holonyms, s.Antonyms, s.Disjoint} {
			for _, r := range refs {
				if _, ok := d.byID[r]; !ok {
					return nil, fmt.Errorf("synset %d: unknown reference %d", s.ID, r)
				}
			}
		}
		for _, w := range s.Words {
			w = normWord(w)
			d.words[w] = append(d.words[w], s.Sense())
			st := stemPhrase(w)
			if _, ok := d.stems[st]; !ok {
				d.stems[st] = w
			}
		}
		for _, p := range s.Meronyms {
			d.link(s.ID, p)
		}
		for _, w := range s.Holonyms {
			d.link(w, s.ID)
		}
	}
	return d, nil
}

// link records that part is a part of whole.
func (d *Dictionary) link(whole, part int64) {
	if !slices.Contains(d.parts[whole], part) {
		d.parts[whole] = append(d.parts[whole], part)
		d.wholes[part] = append(d.wholes[part], whole)
	}
}

// ParseDictionary reads the YAML form:
//
//	synsets:
//	- id: 1
//	  pos: n
//	  words: [car, automobile]
//	  hypernyms: [2]
func ParseDictionary(data []byte) (*Dictionary, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing dictionary: %w", err)
	}
	return NewDictionary(f.Synsets)
}

func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading dictionary %s: %w", path, err)
	}
	d, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Synsets returns the synsets in file order.
func (d *Dictionary) Synsets() []Synset {
	return d.synsets
}

func normWord(w string) string {
	return strings.Join(strings.Fields(strings.ToLower(w)), " ")
}

func stemPhrase(w string) string {
	fs := strings.Fields(w)
	for i, f := range fs {
		fs[i] = porterstemmer.StemString(f)
	}
	return strings.Join(fs, " ")
}

func (d *Dictionary) LookupSenses(word string) ([]ling.Sense, error) {
	w := normWord(word)
	if ss, ok := d.words[w]; ok {
		return slices.Clone(ss), nil
	}
	lemma, _ := d.Lemmatize(w)
	return slices.Clone(d.words[lemma]), nil
}

// Lemmatize maps word to the dictionary word sharing its Porter stem, or
// to its lower case form when there is none.
func (d *Dictionary) Lemmatize(word string) (string, error) {
	w := normWord(word)
	if _, ok := d.words[w]; ok {
		return w, nil
	}
	if lemma, ok := d.stems[stemPhrase(w)]; ok {
		return lemma, nil
	}
	return w, nil
}

func (d *Dictionary) Related(a, b ling.Sense, kind sense.Kind) (bool, error) {
	sa, sb := d.lookup(a), d.lookup(b)
	if sa == nil || sb == nil {
		return false, nil
	}
	switch kind {
	case sense.Equivalent:
		return a == b, nil
	case sense.HypernymOf:
		return d.reaches(b.ID, a.ID, d.hypernyms), nil
	case sense.MeronymOf:
		return d.reaches(b.ID, a.ID, d.partsOf), nil
	case sense.HolonymOf:
		return d.reaches(b.ID, a.ID, d.wholesOf), nil
	case sense.Antonym:
		return slices.Contains(sa.Antonyms, b.ID) || slices.Contains(sb.Antonyms, a.ID), nil
	case sense.Disjoint:
		return d.disjoint(a.ID, b.ID), nil
	}
	return false, fmt.Errorf("unsupported relation kind %s", kind)
}

func (d *Dictionary) Hypernyms(s ling.Sense) ([]ling.Sense, error) {
	ss := d.lookup(s)
	if ss == nil {
		return nil, nil
	}
	res := make([]ling.Sense, len(ss.Hypernyms))
	for i, id := range ss.Hypernyms {
		res[i] = d.byID[id].Sense()
	}
	return res, nil
}

func (d *Dictionary) lookup(s ling.Sense) *Synset {
	ss, ok := d.byID[s.ID]
	if !ok || ss.POS[0] != s.POS {
		return nil
	}
	return ss
}

func (d *Dictionary) hypernyms(id int64) []int64 { return d.byID[id].Hypernyms }
func (d *Dictionary) partsOf(id int64) []int64   { return d.parts[id] }
func (d *Dictionary) wholesOf(id int64) []int64  { return d.wholes[id] }

// reaches reports whether to is found by following next from from, from
// itself excluded.
func (d *Dictionary) reaches(from, to int64, next func(int64) []int64) bool {
	return slices.Contains(d.closure(from, next), to)
}

// closure lists the ids reachable from id in breadth first order.
func (d *Dictionary) closure(id int64, next func(int64) []int64) []int64 {
	seen := map[int64]bool{id: true}
	var res []int64
	queue := []int64{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range next(cur) {
			if seen[n] {
				continue
			}
			seen[n] = true
			res = append(res, n)
			queue = append(queue, n)
		}
	}
	return res
}

// disjoint holds when a synset at or above a is declared disjoint with one
// at or above b.
func (d *Dictionary) disjoint(a, b int64) bool {
	if a == b {
		return false
	}
	upA := append([]int64{a}, d.closure(a, d.hypernyms)...)
	upB := append([]int64{b}, d.closure(b, d.hypernyms)...)
	for _, x := range upA {
		for _, y := range upB {
			if slices.Contains(d.byID[x].Disjoint, y) || slices.Contains(d.byID[y].Disjoint, x) {
				return true
			}
		}
	}
	return false
}

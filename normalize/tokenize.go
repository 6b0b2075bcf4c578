package normalize

import (
	"strings"

	"github.com/blevesearch/segment"
)

// connectives split a label into alternatives.
var connectives = map[string]bool{
	"and": true,
	"or":  true,
	"&":   true,
	"/":   true,
	",":   true,
	"+":   true,
	";":   true,
}

// DefaultStopWords are dropped from labels before lookup.
var DefaultStopWords = []string{
	"a", "an", "the", "of", "in", "on", "at", "by", "for", "from",
	"to", "with", "without", "other", "others", "misc", "miscellaneous",
	"etc", "general", "related",
}

// split segments label into groups of words. Groups are separated by
// connectives; stop words are dropped and words are lower cased.
func split(label string, stop map[string]bool) ([][]string, error) {
	var (
		groups [][]string
		cur    []string
	)
	flush := func() {
		if len(cur) > 0 {
			groups = append(groups, cur)
			cur = nil
		}
	}
	seg := segment.NewWordSegmenter(strings.NewReader(label))
	for seg.Segment() {
		tok := strings.ToLower(string(seg.Bytes()))
		if connectives[tok] {
			flush()
			continue
		}
		if seg.Type() == segment.None {
			continue
		}
		if stop[tok] {
			continue
		}
		cur = append(cur, tok)
	}
	if err := seg.Err(); err != nil {
		return nil, err
	}
	flush()
	return groups, nil
}

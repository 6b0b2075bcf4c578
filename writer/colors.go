package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/signadot/taxmap/relmap"
)

type ColorAttr int

const (
	CommentColor ColorAttr = iota
	SourceColor
	TargetColor
	SepColor
)

type Colors struct {
	Default  func(string, ...any) string
	Attr     map[ColorAttr]func(string, ...any) string
	Relation map[relmap.Relation]func(string, ...any) string
}

func NewColors() *Colors {
	c := &Colors{
		Default: colorDefault,
		Attr: map[ColorAttr]func(string, ...any) string{
			CommentColor: color.BlueString,
			SourceColor:  color.RGB(128, 168, 196).SprintfFunc(),
			TargetColor:  color.RGB(196, 168, 128).SprintfFunc(),
			SepColor:     color.RGB(96, 96, 96).SprintfFunc(),
		},
		Relation: map[relmap.Relation]func(string, ...any) string{
			relmap.Equivalent:  color.RGB(8, 196, 16).SprintfFunc(),
			relmap.LessGeneral: color.CyanString,
			relmap.MoreGeneral: color.RGB(128, 216, 236).SprintfFunc(),
			relmap.Disjoint:    color.RGB(255, 0, 196).SprintfFunc(),
		},
	}
	// implied links are shown dimmer than the primary ones
	c.Relation[relmap.ImpliedLessGeneral] = color.RGB(74, 92, 138).SprintfFunc()
	c.Relation[relmap.ImpliedMoreGeneral] = color.RGB(74, 92, 138).SprintfFunc()
	c.Relation[relmap.ImpliedDisjoint] = color.RGB(168, 0, 196).SprintfFunc()
	return c
}

// ColorsFor returns NewColors when w is a terminal, nil otherwise.
func ColorsFor(w io.Writer) *Colors {
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return NewColors()
	}
	return nil
}

func (c *Colors) attr(a ColorAttr, s string) string {
	if c == nil {
		return s
	}
	if f := c.Attr[a]; f != nil {
		return f("%s", s)
	}
	return c.Default("%s", s)
}

func (c *Colors) relation(r relmap.Relation) string {
	if c == nil {
		return r.String()
	}
	if f := c.Relation[r]; f != nil {
		return f("%s", r.String())
	}
	return c.Default("%s", r.String())
}

func colorDefault(f string, args ...any) string { return fmt.Sprintf(f, args...) }

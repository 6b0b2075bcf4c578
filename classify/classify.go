// Package classify builds node predicates: the label predicates of the path
// from the root down to each node, conjoined.
package classify

import (
	"context"

	"github.com/signadot/taxmap/debug"
	"github.com/signadot/taxmap/formula"
	"github.com/signadot/taxmap/taxerr"
	"github.com/signadot/taxmap/tree"
)

type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify requires a normalized tree and marks every node done.
func (c *Classifier) Classify(ctx context.Context, t *tree.Tree) error {
	if !t.HasRoot() {
		return taxerr.Preconditionf("tree %q has no root", t.Name)
	}
	if t.State() < tree.Normalized {
		return taxerr.Preconditionf("tree %q is not normalized", t.Name)
	}
	var stack []*formula.Formula
	return t.Root().Visit(func(n *tree.Node, isPost bool) (bool, error) {
		if isPost {
			stack = stack[:len(stack)-1]
			return true, nil
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		var parent *formula.Formula
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}
		n.NodePredicate = formula.And(parent, n.LabelPredicate)
		n.NodeDone = true
		stack = append(stack, n.NodePredicate)
		if debug.Normalize() {
			debug.Logf("classify %s -> %s\n", n.ID, n.NodePredicate)
		}
		return true, nil
	})
}

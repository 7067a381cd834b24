package docmodel

import "errors"

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk, or SkipChildren to skip the subtree.
type WalkFunc func(n *Node) error

// SkipChildren may be returned by a WalkFunc to skip a node's children.
//
//nolint:errname,gochecknoglobals // Sentinel control value, mirrors fs.SkipDir.
var SkipChildren = errors.New("skip children")

// Walk performs a pre-order traversal starting at root.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	for _, child := range root.children {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// Walk traverses every root block in order.
func (d *Document) Walk(walkFunc WalkFunc) error {
	for _, block := range d.blocks {
		if err := Walk(block, walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the first node in document order satisfying pred.
func (d *Document) Find(pred func(*Node) bool) *Node {
	var found *Node
	_ = d.Walk(func(n *Node) error {
		if pred(n) {
			found = n
			return errStopWalk
		}
		return nil
	})
	return found
}

var errStopWalk = errors.New("stop walk")

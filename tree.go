package bimap

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
)

// Comparer is implemented by key types that define their own ordering.
// Tree bins use it to order colliding keys of the same dynamic type.
type Comparer[T any] interface {
	Compare(other T) int
}

// compareComparables orders a and b when both share a dynamic type that is
// either an ordered builtin kind or implements Comparer. It returns 0 when
// the keys are equal in order or cannot be compared at all.
func compareComparables[K comparable](a, b K) int {
	switch x := any(a).(type) {
	case string:
		return compareOrdered(x, any(b))
	case int:
		return compareOrdered(x, any(b))
	case int8:
		return compareOrdered(x, any(b))
	case int16:
		return compareOrdered(x, any(b))
	case int32:
		return compareOrdered(x, any(b))
	case int64:
		return compareOrdered(x, any(b))
	case uint:
		return compareOrdered(x, any(b))
	case uint8:
		return compareOrdered(x, any(b))
	case uint16:
		return compareOrdered(x, any(b))
	case uint32:
		return compareOrdered(x, any(b))
	case uint64:
		return compareOrdered(x, any(b))
	case uintptr:
		return compareOrdered(x, any(b))
	case float32:
		return compareOrdered(x, any(b))
	case float64:
		return compareOrdered(x, any(b))
	case Comparer[K]:
		if reflect.TypeOf(any(a)) == reflect.TypeOf(any(b)) {
			return x.Compare(b)
		}
	}
	return 0
}

func compareOrdered[T cmp.Ordered](x T, other any) int {
	if y, ok := other.(T); ok {
		return cmp.Compare(x, y)
	}
	return 0
}

// tieBreakOrder orders a key against an existing tree node when hashes are
// equal and the keys are not comparable: first by dynamic type name, then by
// insertion sequence. The result is never 0.
func tieBreakOrder[K comparable, V comparable](k K, seq uint64, p *node[K, V]) int {
	if d := strings.Compare(typeName(k), typeName(p.key)); d != 0 {
		return d
	}
	if seq <= p.seq {
		return -1
	}
	return 1
}

func typeName[K comparable](k K) string {
	t := reflect.TypeOf(any(k))
	if t == nil {
		return ""
	}
	return t.String()
}

// root returns the root of the tree containing n.
func (n *node[K, V]) root() *node[K, V] {
	r := n
	for r.t.parent != nil {
		r = r.t.parent
	}
	return r
}

// find locates the node for key k with hash h in the subtree rooted at p.
func (p *node[K, V]) find(h uintptr, k K) *node[K, V] {
	for p != nil {
		pl, pr := p.t.left, p.t.right
		if ph := p.hash; ph > h {
			p = pl
		} else if ph < h {
			p = pr
		} else if p.key == k {
			return p
		} else if pl == nil {
			p = pr
		} else if pr == nil {
			p = pl
		} else if dir := compareComparables(k, p.key); dir != 0 {
			if dir < 0 {
				p = pl
			} else {
				p = pr
			}
		} else if q := pr.find(h, k); q != nil {
			return q
		} else {
			p = pl
		}
	}
	return nil
}

// getTreeNode calls find for the root of the tree containing first.
func (first *node[K, V]) getTreeNode(h uintptr, k K) *node[K, V] {
	return first.root().find(h, k)
}

// treeify forms a tree from the bin headed by hd. Every node of the bin
// must already carry tree links.
func treeify[K comparable, V comparable](tab []*node[K, V], hd *node[K, V]) {
	var root *node[K, V]
	for x := hd; x != nil; x = x.next {
		x.t.left, x.t.right = nil, nil
		if root == nil {
			x.t.parent = nil
			x.t.red = false
			root = x
			continue
		}
		k, h := x.key, x.hash
		for p := root; ; {
			var dir int
			if ph := p.hash; ph > h {
				dir = -1
			} else if ph < h {
				dir = 1
			} else if dir = compareComparables(k, p.key); dir == 0 {
				dir = tieBreakOrder(k, x.seq, p)
			}
			xp := p
			if dir <= 0 {
				p = p.t.left
			} else {
				p = p.t.right
			}
			if p == nil {
				x.t.parent = xp
				if dir <= 0 {
					xp.t.left = x
				} else {
					xp.t.right = x
				}
				root = balanceInsertion(root, x)
				break
			}
		}
	}
	moveRootToFront(tab, root)
}

// untreeify drops the tree links of every node in the bin headed by hd,
// leaving a plain list in the same order.
func untreeify[K comparable, V comparable](hd *node[K, V]) *node[K, V] {
	for q := hd; q != nil; q = q.next {
		q.t = nil
	}
	return hd
}

// moveRootToFront ensures that the given root is the first node of its bin.
func moveRootToFront[K comparable, V comparable](tab []*node[K, V], root *node[K, V]) {
	n := len(tab)
	if root == nil || n == 0 {
		return
	}
	index := (uintptr(n) - 1) & root.hash
	first := tab[index]
	if root == first {
		return
	}
	tab[index] = root
	rp, rn := root.t.prev, root.next
	if rn != nil {
		rn.t.prev = rp
	}
	if rp != nil {
		rp.next = rn
	}
	if first != nil {
		first.t.prev = root
	}
	root.next = first
	root.t.prev = nil
}

// putTreeVal inserts into the tree bin headed by first. It returns the
// existing node for k, or nil after inserting a new one.
func (t *hashTable[K, V]) putTreeVal(tab []*node[K, V], first *node[K, V], h uintptr, k K, v V) *node[K, V] {
	searched := false
	root := first.root()
	for p := root; ; {
		var dir int
		if ph := p.hash; ph > h {
			dir = -1
		} else if ph < h {
			dir = 1
		} else if p.key == k {
			return p
		} else if dir = compareComparables(k, p.key); dir == 0 {
			if !searched {
				searched = true
				if ch := p.t.left; ch != nil {
					if q := ch.find(h, k); q != nil {
						return q
					}
				}
				if ch := p.t.right; ch != nil {
					if q := ch.find(h, k); q != nil {
						return q
					}
				}
			}
			dir = tieBreakOrder(k, t.nextSeq, p)
		}

		xp := p
		if dir <= 0 {
			p = p.t.left
		} else {
			p = p.t.right
		}
		if p == nil {
			xpn := xp.next
			x := t.newNode(h, k, v, xpn)
			x.t = &treeLinks[K, V]{parent: xp, prev: xp}
			xp.next = x
			if xpn != nil {
				xpn.t.prev = x
			}
			if dir <= 0 {
				xp.t.left = x
			} else {
				xp.t.right = x
			}
			moveRootToFront(tab, balanceInsertion(root, x))
			return nil
		}
	}
}

// removeTreeNode removes p from its tree bin. When movable is false the
// bin's node order is left alone, which keeps an in-flight iterator's next
// pointer valid.
func (t *hashTable[K, V]) removeTreeNode(p *node[K, V], tab []*node[K, V], movable bool) {
	n := len(tab)
	if n == 0 {
		return
	}
	index := (uintptr(n) - 1) & p.hash
	first := tab[index]
	root := first
	succ, pred := p.next, p.t.prev
	if pred == nil {
		first = succ
		tab[index] = first
	} else {
		pred.next = succ
	}
	if succ != nil {
		succ.t.prev = pred
	}
	if first == nil {
		return
	}
	if root.t.parent != nil {
		root = root.root()
	}
	if movable && (root.t.right == nil || root.t.left == nil || root.t.left.t.left == nil) {
		// too small
		tab[index] = untreeify(first)
		t.untreeifies++
		t.log.V(2).Info("untreeified bin", "bin", index, "reason", "remove")
		return
	}

	var replacement *node[K, V]
	pl, pr := p.t.left, p.t.right
	if pl != nil && pr != nil {
		s := pr
		for s.t.left != nil {
			s = s.t.left
		}
		// swap colors
		s.t.red, p.t.red = p.t.red, s.t.red
		sr := s.t.right
		pp := p.t.parent
		if s == pr {
			// p was s's direct parent
			p.t.parent = s
			s.t.right = p
		} else {
			sp := s.t.parent
			p.t.parent = sp
			if sp != nil {
				if s == sp.t.left {
					sp.t.left = p
				} else {
					sp.t.right = p
				}
			}
			s.t.right = pr
			pr.t.parent = s
		}
		p.t.left = nil
		p.t.right = sr
		if sr != nil {
			sr.t.parent = p
		}
		s.t.left = pl
		pl.t.parent = s
		s.t.parent = pp
		if pp == nil {
			root = s
		} else if p == pp.t.left {
			pp.t.left = s
		} else {
			pp.t.right = s
		}
		if sr != nil {
			replacement = sr
		} else {
			replacement = p
		}
	} else if pl != nil {
		replacement = pl
	} else if pr != nil {
		replacement = pr
	} else {
		replacement = p
	}

	if replacement != p {
		pp := p.t.parent
		replacement.t.parent = pp
		if pp == nil {
			root = replacement
			root.t.red = false
		} else if p == pp.t.left {
			pp.t.left = replacement
		} else {
			pp.t.right = replacement
		}
		p.t.left, p.t.right, p.t.parent = nil, nil, nil
	}

	r := root
	if !p.t.red {
		r = balanceDeletion(root, replacement)
	}

	if replacement == p {
		// detach
		pp := p.t.parent
		p.t.parent = nil
		if pp != nil {
			if p == pp.t.left {
				pp.t.left = nil
			} else if p == pp.t.right {
				pp.t.right = nil
			}
		}
	}
	if movable {
		moveRootToFront(tab, r)
	}
}

// split divides the tree bin headed by b at index into lower and upper
// bins of newTab, untreeifying a half that is now too small. bit is the old
// capacity, the hash bit that selects the upper half.
func (t *hashTable[K, V]) split(b *node[K, V], newTab []*node[K, V], index int, bit int) {
	var loHead, loTail, hiHead, hiTail *node[K, V]
	lc, hc := 0, 0
	for e := b; e != nil; {
		next := e.next
		e.next = nil
		if e.hash&uintptr(bit) == 0 {
			e.t.prev = loTail
			if loTail == nil {
				loHead = e
			} else {
				loTail.next = e
			}
			loTail = e
			lc++
		} else {
			e.t.prev = hiTail
			if hiTail == nil {
				hiHead = e
			} else {
				hiTail.next = e
			}
			hiTail = e
			hc++
		}
		e = next
	}

	if loHead != nil {
		if lc <= UntreeifyThreshold {
			newTab[index] = untreeify(loHead)
			t.untreeifies++
			t.log.V(2).Info("untreeified bin", "bin", index, "entries", lc, "reason", "split")
		} else {
			newTab[index] = loHead
			if hiHead != nil {
				// otherwise already treeified
				treeify(newTab, loHead)
			}
		}
	}
	if hiHead != nil {
		if hc <= UntreeifyThreshold {
			newTab[index+bit] = untreeify(hiHead)
			t.untreeifies++
			t.log.V(2).Info("untreeified bin", "bin", index+bit, "entries", hc, "reason", "split")
		} else {
			newTab[index+bit] = hiHead
			if loHead != nil {
				treeify(newTab, hiHead)
			}
		}
	}
}

// Red-black balancing (Cormen, Leiserson, Rivest).

func rotateLeft[K comparable, V comparable](root, p *node[K, V]) *node[K, V] {
	if p == nil || p.t.right == nil {
		return root
	}
	r := p.t.right
	rl := r.t.left
	p.t.right = rl
	if rl != nil {
		rl.t.parent = p
	}
	pp := p.t.parent
	r.t.parent = pp
	if pp == nil {
		root = r
		root.t.red = false
	} else if pp.t.left == p {
		pp.t.left = r
	} else {
		pp.t.right = r
	}
	r.t.left = p
	p.t.parent = r
	return root
}

func rotateRight[K comparable, V comparable](root, p *node[K, V]) *node[K, V] {
	if p == nil || p.t.left == nil {
		return root
	}
	l := p.t.left
	lr := l.t.right
	p.t.left = lr
	if lr != nil {
		lr.t.parent = p
	}
	pp := p.t.parent
	l.t.parent = pp
	if pp == nil {
		root = l
		root.t.red = false
	} else if pp.t.right == p {
		pp.t.right = l
	} else {
		pp.t.left = l
	}
	l.t.right = p
	p.t.parent = l
	return root
}

func isRed[K comparable, V comparable](n *node[K, V]) bool {
	return n != nil && n.t.red
}

func balanceInsertion[K comparable, V comparable](root, x *node[K, V]) *node[K, V] {
	x.t.red = true
	for {
		xp := x.t.parent
		if xp == nil {
			x.t.red = false
			return x
		}
		if !xp.t.red || xp.t.parent == nil {
			return root
		}
		xpp := xp.t.parent
		if xppl := xpp.t.left; xp == xppl {
			if xppr := xpp.t.right; isRed(xppr) {
				xppr.t.red = false
				xp.t.red = false
				xpp.t.red = true
				x = xpp
				continue
			}
			if x == xp.t.right {
				x = xp
				root = rotateLeft(root, x)
				xp = x.t.parent
				xpp = nil
				if xp != nil {
					xpp = xp.t.parent
				}
			}
			if xp != nil {
				xp.t.red = false
				if xpp != nil {
					xpp.t.red = true
					root = rotateRight(root, xpp)
				}
			}
		} else {
			if isRed(xppl) {
				xppl.t.red = false
				xp.t.red = false
				xpp.t.red = true
				x = xpp
				continue
			}
			if x == xp.t.left {
				x = xp
				root = rotateRight(root, x)
				xp = x.t.parent
				xpp = nil
				if xp != nil {
					xpp = xp.t.parent
				}
			}
			if xp != nil {
				xp.t.red = false
				if xpp != nil {
					xpp.t.red = true
					root = rotateLeft(root, xpp)
				}
			}
		}
	}
}

func balanceDeletion[K comparable, V comparable](root, x *node[K, V]) *node[K, V] {
	for {
		if x == nil || x == root {
			return root
		}
		xp := x.t.parent
		if xp == nil {
			x.t.red = false
			return x
		}
		if x.t.red {
			x.t.red = false
			return root
		}
		if xpl := xp.t.left; xpl == x {
			xpr := xp.t.right
			if isRed(xpr) {
				xpr.t.red = false
				xp.t.red = true
				root = rotateLeft(root, xp)
				xp = x.t.parent
				xpr = nil
				if xp != nil {
					xpr = xp.t.right
				}
			}
			if xpr == nil {
				x = xp
				continue
			}
			sl, sr := xpr.t.left, xpr.t.right
			if !isRed(sr) && !isRed(sl) {
				xpr.t.red = true
				x = xp
				continue
			}
			if !isRed(sr) {
				if sl != nil {
					sl.t.red = false
				}
				xpr.t.red = true
				root = rotateRight(root, xpr)
				xp = x.t.parent
				xpr = nil
				if xp != nil {
					xpr = xp.t.right
				}
			}
			if xpr != nil {
				xpr.t.red = xp != nil && xp.t.red
				if sr = xpr.t.right; sr != nil {
					sr.t.red = false
				}
			}
			if xp != nil {
				xp.t.red = false
				root = rotateLeft(root, xp)
			}
			x = root
		} else {
			// symmetric
			if isRed(xpl) {
				xpl.t.red = false
				xp.t.red = true
				root = rotateRight(root, xp)
				xp = x.t.parent
				xpl = nil
				if xp != nil {
					xpl = xp.t.left
				}
			}
			if xpl == nil {
				x = xp
				continue
			}
			sl, sr := xpl.t.left, xpl.t.right
			if !isRed(sl) && !isRed(sr) {
				xpl.t.red = true
				x = xp
				continue
			}
			if !isRed(sl) {
				if sr != nil {
					sr.t.red = false
				}
				xpl.t.red = true
				root = rotateLeft(root, xpl)
				xp = x.t.parent
				xpl = nil
				if xp != nil {
					xpl = xp.t.left
				}
			}
			if xpl != nil {
				xpl.t.red = xp != nil && xp.t.red
				if sl = xpl.t.left; sl != nil {
					sl.t.red = false
				}
			}
			if xp != nil {
				xp.t.red = false
				root = rotateRight(root, xp)
			}
			x = root
		}
	}
}

// checkTree verifies the red-black and linkage invariants of the subtree
// rooted at n and returns its black height.
func checkTree[K comparable, V comparable](n *node[K, V]) (int, error) {
	if n == nil {
		return 1, nil
	}
	if n.t == nil {
		return 0, fmt.Errorf("%w: list node %v inside tree bin", ErrCorrupted, n.key)
	}
	tp, tl, tr, tb, tn := n.t.parent, n.t.left, n.t.right, n.t.prev, n.next
	if tb != nil && tb.next != n {
		return 0, fmt.Errorf("%w: broken prev link at %v", ErrCorrupted, n.key)
	}
	if tn != nil && (tn.t == nil || tn.t.prev != n) {
		return 0, fmt.Errorf("%w: broken next link at %v", ErrCorrupted, n.key)
	}
	if tp != nil && n != tp.t.left && n != tp.t.right {
		return 0, fmt.Errorf("%w: broken parent link at %v", ErrCorrupted, n.key)
	}
	if tl != nil && (tl.t == nil || tl.t.parent != n || tl.hash > n.hash) {
		return 0, fmt.Errorf("%w: misplaced left child of %v", ErrCorrupted, n.key)
	}
	if tr != nil && (tr.t == nil || tr.t.parent != n || tr.hash < n.hash) {
		return 0, fmt.Errorf("%w: misplaced right child of %v", ErrCorrupted, n.key)
	}
	if n.t.red && (isRed(tl) || isRed(tr)) {
		return 0, fmt.Errorf("%w: red node %v has a red child", ErrCorrupted, n.key)
	}
	lh, err := checkTree(tl)
	if err != nil {
		return 0, err
	}
	rh, err := checkTree(tr)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("%w: unequal black height under %v (%d != %d)", ErrCorrupted, n.key, lh, rh)
	}
	if !n.t.red {
		lh++
	}
	return lh, nil
}

package bimap

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
)

// hashTable is one direction of a BiMapOf: a resizable array of bins, each
// holding a list or a red-black tree of colliding nodes.
//
// Tables are not safe for concurrent use.
type hashTable[K comparable, V comparable] struct {
	bins []*node[K, V]
	size int
	// modCount counts structural modifications: inserts of new keys,
	// removals and clears. Iterators compare it to detect interference.
	modCount int
	// threshold is the size at which the table grows. Before the bins are
	// allocated it holds the initial capacity instead.
	threshold  int
	loadFactor float64
	keyHash    HashFunc[K]
	hasher     Hasher
	nextSeq    uint64

	growths     uint32
	treeifies   uint32
	untreeifies uint32

	log logr.Logger
}

func newHashTable[K comparable, V comparable](
	cfg *Config,
	keyHash HashFunc[K],
	direction string,
) *hashTable[K, V] {
	return &hashTable[K, V]{
		threshold:  tableSizeFor(cfg.InitialCapacity),
		loadFactor: cfg.LoadFactor,
		keyHash:    keyHash,
		hasher:     cfg.Hasher,
		log:        cfg.Logger.WithValues("table", direction),
	}
}

func (t *hashTable[K, V]) hash(key K) uintptr {
	return t.hasher.Smear(t.keyHash(key))
}

func (t *hashTable[K, V]) newNode(h uintptr, key K, value V, next *node[K, V]) *node[K, V] {
	n := &node[K, V]{hash: h, key: key, value: value, next: next, seq: t.nextSeq}
	t.nextSeq++
	return n
}

// capacity returns the current bin count, or the pending initial capacity
// if the bins have not been allocated yet.
func (t *hashTable[K, V]) capacity() int {
	if len(t.bins) > 0 {
		return len(t.bins)
	}
	if t.threshold > 0 {
		return t.threshold
	}
	return DefaultInitialCapacity
}

func (t *hashTable[K, V]) get(key K) (value V, ok bool) {
	if e := t.getNode(key); e != nil {
		return e.value, true
	}
	return
}

func (t *hashTable[K, V]) getNode(key K) *node[K, V] {
	tab := t.bins
	n := len(tab)
	if n == 0 {
		return nil
	}
	h := t.hash(key)
	first := tab[(uintptr(n)-1)&h]
	if first == nil {
		return nil
	}
	if first.hash == h && first.key == key {
		return first
	}
	e := first.next
	if e == nil {
		return nil
	}
	if first.isTree() {
		return first.getTreeNode(h, key)
	}
	for ; e != nil; e = e.next {
		if e.hash == h && e.key == key {
			return e
		}
	}
	return nil
}

// put associates value with key. If onlyIfAbsent is set an existing value
// is left alone. It returns the previous value, if any.
func (t *hashTable[K, V]) put(key K, value V, onlyIfAbsent bool) (old V, loaded bool) {
	return t.putVal(t.hash(key), key, value, onlyIfAbsent)
}

func (t *hashTable[K, V]) putVal(h uintptr, key K, value V, onlyIfAbsent bool) (old V, loaded bool) {
	tab := t.bins
	if len(tab) == 0 {
		tab = t.resize()
	}
	i := (uintptr(len(tab)) - 1) & h
	p := tab[i]
	var e *node[K, V]
	if p == nil {
		tab[i] = t.newNode(h, key, value, nil)
	} else {
		if p.hash == h && p.key == key {
			e = p
		} else if p.isTree() {
			e = t.putTreeVal(tab, p, h, key, value)
		} else {
			for binCount := 0; ; binCount++ {
				if e = p.next; e == nil {
					p.next = t.newNode(h, key, value, nil)
					if binCount >= TreeifyThreshold-1 {
						t.treeifyBin(tab, h)
					}
					break
				}
				if e.hash == h && e.key == key {
					break
				}
				p = e
			}
		}
		if e != nil {
			old = e.value
			if !onlyIfAbsent {
				e.value = value
			}
			return old, true
		}
	}
	t.modCount++
	t.size++
	if t.size > t.threshold {
		t.resize()
	}
	return old, false
}

// remove deletes the node for key. If matchValue is set the node is only
// removed when its value equals value. When movable is false the order of
// the remaining nodes of the bin is preserved.
func (t *hashTable[K, V]) remove(key K, value V, matchValue, movable bool) *node[K, V] {
	return t.removeNode(t.hash(key), key, value, matchValue, movable)
}

func (t *hashTable[K, V]) removeNode(h uintptr, key K, value V, matchValue, movable bool) *node[K, V] {
	tab := t.bins
	n := len(tab)
	if n == 0 {
		return nil
	}
	index := (uintptr(n) - 1) & h
	p := tab[index]
	if p == nil {
		return nil
	}
	var nd *node[K, V]
	if p.hash == h && p.key == key {
		nd = p
	} else if e := p.next; e != nil {
		if p.isTree() {
			nd = p.getTreeNode(h, key)
		} else {
			for ; e != nil; e = e.next {
				if e.hash == h && e.key == key {
					nd = e
					break
				}
				p = e
			}
		}
	}
	if nd == nil || (matchValue && nd.value != value) {
		return nil
	}
	if nd.isTree() {
		t.removeTreeNode(nd, tab, movable)
	} else if nd == p {
		tab[index] = nd.next
	} else {
		p.next = nd.next
	}
	t.modCount++
	t.size--
	return nd
}

// cloneEmpty returns an empty table with the configuration of t, sized to
// hold its current entries without resizing.
func (t *hashTable[K, V]) cloneEmpty() *hashTable[K, V] {
	return &hashTable[K, V]{
		threshold:  t.capacity(),
		loadFactor: t.loadFactor,
		keyHash:    t.keyHash,
		hasher:     t.hasher,
		log:        t.log,
	}
}

func (t *hashTable[K, V]) clear() {
	t.modCount++
	if len(t.bins) > 0 && t.size > 0 {
		t.size = 0
		clear(t.bins)
	}
}

// resize initializes or doubles the bins. Every bin is split into a lower
// and an upper half by the hash bit of the old capacity; nodes keep their
// relative order within each half.
func (t *hashTable[K, V]) resize() []*node[K, V] {
	oldTab := t.bins
	oldCap := len(oldTab)
	oldThr := t.threshold
	newCap, newThr := 0, 0
	if oldCap > 0 {
		if oldCap >= MaximumCapacity {
			t.threshold = math.MaxInt
			return oldTab
		}
		newCap = oldCap << 1
		if newCap < MaximumCapacity && oldCap >= DefaultInitialCapacity {
			newThr = oldThr << 1
		}
	} else if oldThr > 0 {
		// initial capacity was placed in threshold
		newCap = oldThr
	} else {
		newCap = DefaultInitialCapacity
		newThr = int(DefaultLoadFactor * DefaultInitialCapacity)
	}
	if newThr == 0 {
		ft := float64(newCap) * t.loadFactor
		if newCap < MaximumCapacity && ft < float64(MaximumCapacity) {
			newThr = int(ft)
		} else {
			newThr = math.MaxInt
		}
	}
	t.threshold = newThr
	newTab := make([]*node[K, V], newCap)
	t.bins = newTab
	if oldCap == 0 {
		return newTab
	}

	for j := 0; j < oldCap; j++ {
		e := oldTab[j]
		if e == nil {
			continue
		}
		oldTab[j] = nil
		if e.next == nil {
			newTab[e.hash&uintptr(newCap-1)] = e
		} else if e.isTree() {
			t.split(e, newTab, j, oldCap)
		} else {
			// preserve order
			var loHead, loTail, hiHead, hiTail *node[K, V]
			for e != nil {
				next := e.next
				if e.hash&uintptr(oldCap) == 0 {
					if loTail == nil {
						loHead = e
					} else {
						loTail.next = e
					}
					loTail = e
				} else {
					if hiTail == nil {
						hiHead = e
					} else {
						hiTail.next = e
					}
					hiTail = e
				}
				e = next
			}
			if loTail != nil {
				loTail.next = nil
				newTab[j] = loHead
			}
			if hiTail != nil {
				hiTail.next = nil
				newTab[j+oldCap] = hiHead
			}
		}
	}
	t.growths++
	t.log.V(1).Info("resized table", "from", oldCap, "to", newCap, "size", t.size, "threshold", newThr)
	return newTab
}

// treeifyBin replaces the list bin for hash h with a tree bin, unless the
// table is still too small, in which case it resizes instead.
func (t *hashTable[K, V]) treeifyBin(tab []*node[K, V], h uintptr) {
	n := len(tab)
	if n < MinTreeifyCapacity {
		t.resize()
		return
	}
	index := (uintptr(n) - 1) & h
	hd := tab[index]
	if hd == nil {
		return
	}
	var tl *node[K, V]
	count := 0
	for e := hd; e != nil; e = e.next {
		e.t = &treeLinks[K, V]{prev: tl}
		tl = e
		count++
	}
	treeify(tab, hd)
	t.treeifies++
	t.log.V(2).Info("treeified bin", "bin", index, "entries", count)
}

// verify checks bin placement, bin topology, tree invariants and the size
// count of the table.
func (t *hashTable[K, V]) verify() error {
	n := len(t.bins)
	count := 0
	for i, first := range t.bins {
		if first == nil {
			continue
		}
		if first.isTree() {
			if n < MinTreeifyCapacity {
				return fmt.Errorf("%w: tree bin %d in table of capacity %d", ErrCorrupted, i, n)
			}
			if first.t.prev != nil {
				return fmt.Errorf("%w: tree bin %d head has a predecessor", ErrCorrupted, i)
			}
			root := first.root()
			if root.t.red {
				return fmt.Errorf("%w: tree bin %d has a red root", ErrCorrupted, i)
			}
			if _, err := checkTree(root); err != nil {
				return fmt.Errorf("bin %d: %w", i, err)
			}
			if reachable := countTree(root); reachable != binLen(first) {
				return fmt.Errorf("%w: tree bin %d reaches %d of %d nodes", ErrCorrupted, i, reachable, binLen(first))
			}
		}
		for e := first; e != nil; e = e.next {
			if e.isTree() != first.isTree() {
				return fmt.Errorf("%w: bin %d mixes list and tree nodes", ErrCorrupted, i)
			}
			if int((uintptr(n)-1)&e.hash) != i {
				return fmt.Errorf("%w: key %v misplaced in bin %d", ErrCorrupted, e.key, i)
			}
			if e.hash != t.hash(e.key) {
				return fmt.Errorf("%w: stale hash for key %v", ErrCorrupted, e.key)
			}
			count++
		}
	}
	if count != t.size {
		return fmt.Errorf("%w: counted %d nodes, size is %d", ErrCorrupted, count, t.size)
	}
	return nil
}

func binLen[K comparable, V comparable](first *node[K, V]) int {
	n := 0
	for e := first; e != nil; e = e.next {
		n++
	}
	return n
}

func countTree[K comparable, V comparable](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return 1 + countTree(n.t.left) + countTree(n.t.right)
}

package bimap

// node is a hash-bin entry. Entries of one bin are singly linked through
// next, in insertion order for list bins and in traversal order for tree
// bins.
//
// A node with non-nil t is a tree node: its bin is a red-black tree and t
// holds the tree links. Converting a bin between the two forms attaches or
// drops t on every node of the bin; the nodes themselves are never
// reallocated, so iterators holding a node stay valid across the change.
type node[K comparable, V comparable] struct {
	hash  uintptr
	key   K
	value V
	next  *node[K, V]
	// seq is the insertion sequence number of the node within its table.
	// It orders tree nodes whose hashes collide and whose keys cannot be
	// compared.
	seq uint64
	t   *treeLinks[K, V]
}

// treeLinks are the red-black tree links of a tree node.
type treeLinks[K comparable, V comparable] struct {
	parent *node[K, V]
	left   *node[K, V]
	right  *node[K, V]
	// prev is needed to unlink next upon deletion.
	prev *node[K, V]
	red  bool
}

func (n *node[K, V]) isTree() bool {
	return n.t != nil
}

// Entry is a key-value pair snapshot.
type Entry[K comparable, V comparable] struct {
	Key   K
	Value V
}

func (n *node[K, V]) entry() Entry[K, V] {
	return Entry[K, V]{Key: n.key, Value: n.value}
}

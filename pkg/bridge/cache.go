package bridge

import (
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/glycerine/blake2b"

	"github.com/tessera-cad/tessera/pkg/ast"
)

// ContentHash is a structural digest of an AST subtree. Two
// syntactically identical subtrees hash equal regardless of where in
// the source they were parsed; names and source locations are excluded.
type ContentHash [32]byte

// HashNode computes the structural hash of a node: a recursive hash
// combinator over kind tag, full (untruncated) parameters and child
// digests.
func HashNode(n *ast.Node) ContentHash {
	h := blake2b.New256()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n.Kind))
	h.Write(buf[:])

	hashPayload(h, n.Data)

	binary.LittleEndian.PutUint64(buf[:], uint64(len(n.Children)))
	h.Write(buf[:])
	for _, child := range n.Children {
		ch := HashNode(child)
		h.Write(ch[:])
	}

	var out ContentHash
	h.Sum(out[:0])
	return out
}

// hashPayload writes the canonical encoding of a node payload. Payloads
// serialize deterministically via their JSON form (fixed field order);
// the if-node else branch embeds nodes and is recursed structurally so
// its source locations stay out of the digest.
func hashPayload(h interface{ Write([]byte) (int, error) }, data ast.NodeData) {
	switch d := data.(type) {
	case nil:
		h.Write([]byte("nil"))
	case *ast.IfData:
		cond, _ := json.Marshal(d.Cond)
		h.Write(cond)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(len(d.Else)))
		h.Write(buf[:])
		for _, n := range d.Else {
			ch := HashNode(n)
			h.Write(ch[:])
		}
	default:
		enc, _ := json.Marshal(data)
		h.Write(enc)
	}
}

// Cache memoizes conversion results by structural content hash. It is
// a bounded-lifetime build cache: explicitly clearable, no automatic
// eviction. Conversion is single-threaded, but the mutex keeps the
// cache safe should a future adaptation convert concurrently.
type Cache struct {
	mu      sync.Mutex
	entries map[ContentHash]*GeometryNode
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[ContentHash]*GeometryNode)}
}

// Get returns the cached node for the hash, or nil.
func (c *Cache) Get(h ContentHash) *GeometryNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[h]
}

// Put stores a conversion result.
func (c *Cache) Put(h ContentHash, n *GeometryNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[h] = n
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[ContentHash]*GeometryNode)
}

package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/exprs"
	"github.com/tessera-cad/tessera/pkg/kernel"
)

// ExprEvaluator resolves expression-valued parameters and conditions.
// *exprs.Evaluator is the production implementation.
type ExprEvaluator interface {
	Eval(expr string, bindings map[string]float64) (float64, error)
	EvalBool(expr string, bindings map[string]float64) (bool, error)
}

// Config configures a Converter. Kernel is required; everything else
// has a working default.
type Config struct {
	// Kernel builds and tessellates solids.
	Kernel kernel.Kernel

	// Resolution is the global fragment resolution. Zero-valued fields
	// fall back to DefaultResolution.
	Resolution Resolution

	// Evaluator resolves expression parameters. Defaults to exprs.New().
	Evaluator ExprEvaluator

	// DisableCache turns off content-hash memoization.
	DisableCache bool

	// ValidateNodes re-checks structural invariants on every freshly
	// converted root before it is returned.
	ValidateNodes bool

	// DiscardLocations drops source locations from converted nodes.
	// Locations are preserved by default for diagnostics.
	DiscardLocations bool

	// Timeout bounds a single Convert call. Zero means no limit.
	Timeout time.Duration
}

// Stats reports converter state and counters.
type Stats struct {
	Initialized bool
	HasKernel   bool
	Converted   uint64 // nodes converted, cache hits excluded
	CacheHits   uint64
	CacheMisses uint64
	CacheSize   int
	Meshes      uint64 // meshes generated
}

// Converter turns AST nodes into geometry trees. It must be
// initialized before use and is no longer usable after Dispose.
//
// Conversion itself is single-threaded; the mutex only guards the
// lifecycle flags and counters so Stats and Dispose are safe to call
// from other goroutines.
type Converter struct {
	mu          sync.Mutex
	initialized bool
	disposed    bool

	kern  kernel.Kernel
	res   Resolution
	eval  ExprEvaluator
	cache *Cache

	validateNodes    bool
	discardLocations bool

	nameSeq uint64

	converted   uint64
	cacheHits   uint64
	cacheMisses uint64
	meshes      uint64

	timeout time.Duration
}

// NewConverter creates a Converter from cfg. Initialize must be called
// before the first Convert.
func NewConverter(cfg Config) *Converter {
	c := &Converter{
		kern:             cfg.Kernel,
		res:              cfg.Resolution,
		eval:             cfg.Evaluator,
		validateNodes:    cfg.ValidateNodes,
		discardLocations: cfg.DiscardLocations,
		timeout:          cfg.Timeout,
	}
	if !cfg.DisableCache {
		c.cache = NewCache()
	}
	return c
}

// Initialize validates the configuration and fills in defaults. It is
// idempotent.
func (c *Converter) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return &Error{Code: ErrNotInitialized, Message: "converter is disposed"}
	}
	if c.kern == nil {
		return &Error{Code: ErrInvalidContext, Message: "no kernel configured"}
	}
	if c.eval == nil {
		c.eval = exprs.New()
	}
	if c.res == (Resolution{}) {
		c.res = DefaultResolution
	}
	c.initialized = true
	return nil
}

// Convert converts a single AST root into a geometry tree. The
// conversion walks depth-first, left to right, validating parameters
// and arity before any geometry work. A configured timeout bounds the
// whole call.
func (c *Converter) Convert(n *ast.Node) (*GeometryNode, error) {
	if err := c.checkReady(); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, &Error{Code: ErrInvalidContext, Message: "nil AST node"}
	}

	if c.timeout <= 0 {
		return c.convertRoot(n)
	}

	type result struct {
		g   *GeometryNode
		err error
	}
	ch := make(chan result, 1)
	go func() {
		g, err := c.convertRoot(n)
		ch <- result{g, err}
	}()

	select {
	case r := <-ch:
		return r.g, r.err
	case <-time.After(c.timeout):
		return nil, &Error{
			Code:    ErrInvalidContext,
			Message: fmt.Sprintf("conversion timed out after %s", c.timeout),
			Kind:    n.Kind,
			Loc:     n.Loc,
		}
	}
}

// ConvertForest converts an ordered list of AST roots, failing on the
// first error.
func (c *Converter) ConvertForest(nodes []*ast.Node) ([]*GeometryNode, error) {
	out := make([]*GeometryNode, 0, len(nodes))
	for i, n := range nodes {
		g, err := c.Convert(n)
		if err != nil {
			return nil, fmt.Errorf("root %d: %w", i, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// convertRoot converts one root and applies the optional post-build
// validation pass.
func (c *Converter) convertRoot(n *ast.Node) (*GeometryNode, error) {
	g, err := c.convert(n, nil)
	if err != nil {
		return nil, err
	}
	if c.validateNodes {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// convert dispatches on the node kind. env holds the variable bindings
// introduced by enclosing control-flow nodes; a nil or empty env makes
// the subtree structurally deterministic and therefore cacheable.
func (c *Converter) convert(n *ast.Node, env map[string]float64) (*GeometryNode, error) {
	if n == nil {
		return nil, &Error{Code: ErrInvalidContext, Message: "nil AST node"}
	}

	cacheable := c.cache != nil && len(env) == 0
	h := HashNode(n)
	if cacheable {
		if hit := c.cache.Get(h); hit != nil {
			atomic.AddUint64(&c.cacheHits, 1)
			return hit, nil
		}
		atomic.AddUint64(&c.cacheMisses, 1)
	}

	var g *GeometryNode
	var err error
	switch n.Kind.Category() {
	case ast.CategoryPrimitive:
		g, err = c.convertPrimitive(n, env)
	case ast.CategoryTransform:
		g, err = c.convertTransform(n, env)
	case ast.CategoryCSG:
		g, err = c.convertCSG(n, env)
	case ast.CategoryExtrusion:
		g, err = c.convertExtrusion(n, env)
	case ast.CategoryControlFlow:
		g, err = c.convertControlFlow(n, env)
	case ast.CategoryModifier:
		g, err = c.convertModifier(n, env)
	default:
		return nil, nodeErrorf(ErrUnknownNodeType, n, "unsupported node kind")
	}
	if err != nil {
		return nil, err
	}

	g.hash = h
	atomic.AddUint64(&c.converted, 1)
	if cacheable {
		c.cache.Put(h, g)
	}
	return g, nil
}

// newNode allocates the GeometryNode shell for an AST node, generating
// a unique name when the parser did not provide one.
func (c *Converter) newNode(n *ast.Node, spec NodeSpec) *GeometryNode {
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("%s_%d", n.Kind, atomic.AddUint64(&c.nameSeq, 1))
	}
	g := &GeometryNode{
		Name:     name,
		Kind:     n.Kind,
		Category: n.Kind.Category(),
		Spec:     spec,
		Source:   n,
		conv:     c,
	}
	if !c.discardLocations {
		g.Loc = n.Loc
	}
	return g
}

// convertChildren converts the ordered child list, wrapping any
// failure with the parent's context.
func (c *Converter) convertChildren(n *ast.Node, env map[string]float64) ([]*GeometryNode, error) {
	children := make([]*GeometryNode, 0, len(n.Children))
	for i, child := range n.Children {
		g, err := c.convert(child, env)
		if err != nil {
			return nil, wrapChild(n, i, err)
		}
		children = append(children, g)
	}
	return children, nil
}

func (c *Converter) checkReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return &Error{Code: ErrNotInitialized, Message: "converter is disposed"}
	}
	if !c.initialized {
		return &Error{Code: ErrNotInitialized, Message: "converter not initialized"}
	}
	return nil
}

// Stats returns a snapshot of the converter state and counters.
func (c *Converter) Stats() Stats {
	c.mu.Lock()
	initialized := c.initialized
	c.mu.Unlock()
	s := Stats{
		Initialized: initialized,
		HasKernel:   c.kern != nil,
		Converted:   atomic.LoadUint64(&c.converted),
		CacheHits:   atomic.LoadUint64(&c.cacheHits),
		CacheMisses: atomic.LoadUint64(&c.cacheMisses),
		Meshes:      atomic.LoadUint64(&c.meshes),
	}
	if c.cache != nil {
		s.CacheSize = c.cache.Size()
	}
	return s
}

// ClearCache drops all memoized conversion results.
func (c *Converter) ClearCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Dispose releases the converter. Further calls fail with
// NotInitialized; Dispose itself is idempotent.
func (c *Converter) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	c.initialized = false
	if c.cache != nil {
		c.cache.Clear()
	}
}

func (c *Converter) noteMeshGenerated() {
	atomic.AddUint64(&c.meshes, 1)
}

package execctx

import (
	"sync"

	"github.com/Borislavv/lineage-cache/pkg/lineage"
	"github.com/Borislavv/lineage-cache/pkg/matrix"
)

// MapContext is a reference ExecutionContext backed by a plain mutex-
// guarded map, suitable for tests and for embedding in a host runtime
// that has no richer variable table of its own.
type MapContext struct {
	mu   sync.Mutex
	vars map[string]any
	lin  map[string]lineage.Item
}

// NewMapContext returns an empty MapContext.
func NewMapContext() *MapContext {
	return &MapContext{
		vars: make(map[string]any),
		lin:  make(map[string]lineage.Item),
	}
}

func (c *MapContext) GetVariable(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vars[name]
	return v, ok
}

func (c *MapContext) SetVariable(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.vars[name]; ok {
		c.cleanupLocked(old)
	}
	c.vars[name] = value
}

func (c *MapContext) RemoveVariable(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vars[name]
	delete(c.vars, name)
	delete(c.lin, name)
	return v, ok
}

// CleanupDataObject is a no-op for MapContext: it holds no pinned
// buffers of its own. Host runtimes with a buffer pool override this
// behavior by supplying their own ExecutionContext.
func (c *MapContext) CleanupDataObject(value any) {}

func (c *MapContext) cleanupLocked(value any) { c.CleanupDataObject(value) }

func (c *MapContext) SetMatrixOutput(name string, block matrix.Block) {
	c.SetVariable(name, block)
}

func (c *MapContext) SetScalarOutput(name string, scalar matrix.Scalar) {
	c.SetVariable(name, scalar)
}

func (c *MapContext) Lineage(name string) (lineage.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.lin[name]
	return item, ok
}

func (c *MapContext) SetLineage(name string, item lineage.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lin[name] = item
}

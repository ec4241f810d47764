// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; the defaults do
// nothing. The serve command registers Prometheus-backed hooks at startup,
// other commands leave the no-ops in place. Library packages never import
// a metrics backend.
//
// # Usage
//
//	observability.SetTreeHooks(&metrics{})
//
//	observability.Tree().OnBuildStart(ctx, path)
//	tree, err := taxonomy.Build(nodes, names)
//	observability.Tree().OnBuildComplete(ctx, path, tree.Len(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// TreeHooks receives events about loading and emitting taxonomy trees.
type TreeHooks interface {
	// OnBuildStart fires before the dump at source is read.
	OnBuildStart(ctx context.Context, source string)
	// OnBuildComplete fires once the tree is assembled (or failed).
	OnBuildComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)
	// OnOutput fires after an output (text tree, lineages, dot) is written.
	OnOutput(ctx context.Context, format string, items int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations. keyType names what was
// looked up, e.g. "archive".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from outgoing downloads.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a transport failure (no response at all).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopTreeHooks is a no-op implementation of TreeHooks.
type NoopTreeHooks struct{}

func (NoopTreeHooks) OnBuildStart(context.Context, string)                               {}
func (NoopTreeHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {}
func (NoopTreeHooks) OnOutput(context.Context, string, int, time.Duration, error)        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	hooksMu    sync.RWMutex
	treeHooks  TreeHooks  = NoopTreeHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
)

// SetTreeHooks registers tree hooks. A nil value is ignored.
func SetTreeHooks(h TreeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		treeHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil value is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. A nil value is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Tree returns the registered tree hooks.
func Tree() TreeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return treeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults. Tests use it.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	treeHooks = NoopTreeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}

package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	tr := NoopTreeHooks{}
	tr.OnBuildStart(ctx, "taxdump.tar.gz")
	tr.OnBuildComplete(ctx, "taxdump.tar.gz", 2500000, time.Second, nil)
	tr.OnOutput(ctx, "csv", 42, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "archive")
	c.OnCacheMiss(ctx, "archive")
	c.OnCacheSet(ctx, "archive", 128)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "ftp.ncbi.nlm.nih.gov", "/pub/taxonomy/taxdump.tar.gz")
	h.OnResponse(ctx, "GET", "ftp.ncbi.nlm.nih.gov", "/pub/taxonomy/taxdump.tar.gz", 200, time.Second)
	h.OnError(ctx, "GET", "ftp.ncbi.nlm.nih.gov", "/pub/taxonomy/taxdump.tar.gz", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Tree() should return NoopTreeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customTree := &testTreeHooks{}
	SetTreeHooks(customTree)
	if Tree() != customTree {
		t.Error("SetTreeHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Reset() should restore NoopTreeHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testTreeHooks{}
	SetTreeHooks(custom)
	SetTreeHooks(nil)

	if Tree() != custom {
		t.Error("SetTreeHooks(nil) should be ignored")
	}
}

type testTreeHooks struct{ NoopTreeHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

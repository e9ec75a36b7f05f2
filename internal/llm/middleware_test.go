package llm

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"
)

func TestWithCache_MemoizesSuccesses(t *testing.T) {
	fake := NewFakeClient(`{"a": 1}`)
	cli := Wrap(fake, WithCache(8, time.Minute))

	msgs := []Message{{Role: RoleUser, Content: "hello"}}
	first, err := cli.Generate(context.Background(), msgs)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := cli.Generate(context.Background(), msgs)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Fatalf("cache returned different text: %q vs %q", first, second)
	}
	if fake.Calls() != 1 {
		t.Fatalf("inner client called %d times, want 1", fake.Calls())
	}

	// A different prompt misses the cache.
	if _, err := cli.Generate(context.Background(), []Message{{Role: RoleUser, Content: "other"}}); err != nil {
		t.Fatalf("miss: %v", err)
	}
	if fake.Calls() != 2 {
		t.Fatalf("inner client called %d times, want 2", fake.Calls())
	}
}

func TestWithCache_NeverCachesFailures(t *testing.T) {
	fake := NewFakeClient()
	fake.Err = errors.New("boom")
	cli := Wrap(fake, WithCache(8, time.Minute))

	msgs := []Message{{Role: RoleUser, Content: "hello"}}
	for i := 0; i < 2; i++ {
		if _, err := cli.Generate(context.Background(), msgs); err == nil {
			t.Fatal("expected error")
		}
	}
	if fake.Calls() != 2 {
		t.Fatalf("inner client called %d times, want 2", fake.Calls())
	}
}

func TestWithLogging_PassesThroughAndTagsStage(t *testing.T) {
	var buf bytes.Buffer
	fake := NewFakeClient(`{"ok": true}`)
	cli := Wrap(fake, WithLogging(log.New(&buf, "", 0)))

	ctx := WithStage(context.Background(), "identify")
	text, err := cli.Generate(ctx, []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != `{"ok": true}` {
		t.Fatalf("text = %q", text)
	}
	if !bytes.Contains(buf.Bytes(), []byte("identify")) {
		t.Fatalf("log output missing stage name: %s", buf.String())
	}
}

func TestRateLimit_DisabledIsNoop(t *testing.T) {
	fake := NewFakeClient(`{}`)
	cli := Wrap(fake, RateLimit(0, 0))
	if _, err := cli.Generate(context.Background(), nil); err != nil {
		t.Fatalf("generate: %v", err)
	}
}

func TestRateLimit_RespectsContextCancel(t *testing.T) {
	fake := NewFakeClient(`{}`)
	// burst 1, so the second call must wait for a refill that never comes
	// before the context deadline.
	cli := Wrap(fake, RateLimit(0.001, 1))
	defer cli.Close()

	if _, err := cli.Generate(context.Background(), nil); err != nil {
		t.Fatalf("first: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := cli.Generate(ctx, nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestStageFromDefault(t *testing.T) {
	if got := StageFrom(context.Background()); got != "unknown" {
		t.Fatalf("got %q", got)
	}
	if got := StageFrom(WithStage(context.Background(), "expand")); got != "expand" {
		t.Fatalf("got %q", got)
	}
}

package llm

import (
	"context"
	"sync"
)

// FakeClient replays scripted responses for offline runs and tests. Each
// Generate call consumes the next queued response; once the queue is drained
// it keeps returning the last one. Setting Err makes every call fail.
type FakeClient struct {
	mu        sync.Mutex
	responses []string
	calls     int

	// Err, when non-nil, is returned by every Generate call.
	Err error
}

func NewFakeClient(responses ...string) *FakeClient {
	return &FakeClient{responses: responses}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// Calls reports how many times Generate was invoked.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeClient) Generate(ctx context.Context, msgs []Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.responses) == 0 {
		return "{}", nil
	}
	i := f.calls - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

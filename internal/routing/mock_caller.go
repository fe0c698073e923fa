package routing

import (
	"context"
	"io"
	"sync"

	"venty-hq/relay/pkg/providers"
)

// Call records one completion attempt made against a MockCaller.
type Call struct {
	Model     string
	Messages  []providers.Message
	Streaming bool
}

// MockCaller is a scriptable Caller for router tests. Outcomes are
// consumed in order; once the script is exhausted every call succeeds
// with the default content.
type MockCaller struct {
	name    string
	content string

	mu     sync.Mutex
	script []outcome
	calls  []Call
	closed bool
}

type outcome struct {
	err    error
	chunks []string
}

// NewMockCaller creates a mock caller that always succeeds with content.
func NewMockCaller(name, content string) *MockCaller {
	return &MockCaller{name: name, content: content}
}

// FailWith queues a failing outcome for the next call.
func (m *MockCaller) FailWith(err error) *MockCaller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, outcome{err: err})
	return m
}

// FailTimes queues n failing outcomes with the same error.
func (m *MockCaller) FailTimes(n int, err error) *MockCaller {
	for i := 0; i < n; i++ {
		m.FailWith(err)
	}
	return m
}

// SucceedWith queues a succeeding outcome carrying the given chunks.
// Complete joins them; Stream yields them one at a time.
func (m *MockCaller) SucceedWith(chunks ...string) *MockCaller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, outcome{chunks: chunks})
	return m
}

// Calls returns a copy of the recorded calls.
func (m *MockCaller) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of calls received.
func (m *MockCaller) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Closed reports whether Close has been called.
func (m *MockCaller) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockCaller) next(call Call) outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	if len(m.script) == 0 {
		return outcome{chunks: []string{m.content}}
	}
	o := m.script[0]
	m.script = m.script[1:]
	return o
}

// Complete implements providers.Caller.
func (m *MockCaller) Complete(ctx context.Context, model string, messages []providers.Message) (*providers.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, &providers.CancellationError{Provider: m.name, Cause: err}
	}
	o := m.next(Call{Model: model, Messages: messages})
	if o.err != nil {
		return nil, o.err
	}
	var content string
	for _, c := range o.chunks {
		content += c
	}
	return &providers.ChatResponse{
		Content:  content,
		Provider: m.name,
		Model:    model,
	}, nil
}

// Stream implements providers.Caller.
func (m *MockCaller) Stream(ctx context.Context, model string, messages []providers.Message) (providers.StreamReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, &providers.CancellationError{Provider: m.name, Cause: err}
	}
	o := m.next(Call{Model: model, Messages: messages, Streaming: true})
	if o.err != nil {
		return nil, o.err
	}
	return &mockStreamReader{chunks: o.chunks}, nil
}

// Name implements providers.Caller.
func (m *MockCaller) Name() string {
	return m.name
}

// Close implements providers.Caller.
func (m *MockCaller) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type mockStreamReader struct {
	chunks []string
	pos    int
}

func (r *mockStreamReader) Read(ctx context.Context) (*providers.StreamDelta, error) {
	if err := ctx.Err(); err != nil {
		return nil, &providers.CancellationError{Cause: err}
	}
	if r.pos >= len(r.chunks) {
		return nil, io.EOF
	}
	chunk := r.chunks[r.pos]
	r.pos++
	return &providers.StreamDelta{Text: chunk, Raw: []byte(chunk)}, nil
}

func (r *mockStreamReader) Close() error {
	return nil
}

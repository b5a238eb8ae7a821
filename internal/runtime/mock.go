package runtime

import (
	"context"
	"sync"

	"github.com/ranfuzz/ranfuzz-ctl/internal/system"
)

// MockRuntime is a mock implementation of Runtime for testing
type MockRuntime struct {
	mu sync.RWMutex

	// Running tracks which projects are up
	Running map[string]bool

	// LogResults maps project names to successive Logs outputs; the last
	// entry repeats once the sequence is exhausted
	LogResults map[string][]string

	// UpWaitErrors maps project names to the error their Handle.Wait returns
	UpWaitErrors map[string]error

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []MockCall

	logCalls map[string]int
}

// MockCall represents a recorded method call
type MockCall struct {
	Method  string
	Project string
}

// NewMockRuntime creates a new mock runtime
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		Running:      make(map[string]bool),
		LogResults:   make(map[string][]string),
		UpWaitErrors: make(map[string]error),
		Errors:       make(map[string]error),
		CallLog:      make([]MockCall, 0),
		logCalls:     make(map[string]int),
	}
}

func (m *MockRuntime) record(method, project string) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Project: project})
}

// SetError sets an error to be returned for a specific operation
func (m *MockRuntime) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// SetLogs sets the successive outputs Logs returns for a project
func (m *MockRuntime) SetLogs(project string, outputs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogResults[project] = outputs
	m.logCalls[project] = 0
}

// GetCalls returns all recorded calls
func (m *MockRuntime) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCall, len(m.CallLog))
	copy(calls, m.CallLog)
	return calls
}

// GetCallsFor returns all calls for a specific method
func (m *MockRuntime) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.CallLog {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Reset clears all state
func (m *MockRuntime) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Running = make(map[string]bool)
	m.LogResults = make(map[string][]string)
	m.UpWaitErrors = make(map[string]error)
	m.Errors = make(map[string]error)
	m.CallLog = make([]MockCall, 0)
	m.logCalls = make(map[string]int)
}

// Name returns the runtime identifier
func (m *MockRuntime) Name() string {
	return "mock"
}

// Up marks the project running
func (m *MockRuntime) Up(ctx context.Context, p Project) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Up", p.Name)

	if err, ok := m.Errors["Up"]; ok {
		return nil, err
	}

	m.Running[p.Name] = true
	proc := &system.MockProcess{Err: m.UpWaitErrors[p.Name]}
	return NewHandle(p, proc, []string{"mock", "up", p.Name}), nil
}

// Down marks the project stopped
func (m *MockRuntime) Down(ctx context.Context, p Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Down", p.Name)

	if err, ok := m.Errors["Down"]; ok {
		return err
	}

	delete(m.Running, p.Name)
	return nil
}

// Logs returns the next configured output for the project
func (m *MockRuntime) Logs(ctx context.Context, p Project) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Logs", p.Name)

	if err, ok := m.Errors["Logs"]; ok {
		return "", err
	}

	outputs := m.LogResults[p.Name]
	if len(outputs) == 0 {
		return "", nil
	}
	i := m.logCalls[p.Name]
	if i >= len(outputs) {
		i = len(outputs) - 1
	}
	m.logCalls[p.Name]++
	return outputs[i], nil
}

// Status reports one mock container per running project
func (m *MockRuntime) Status(ctx context.Context, p Project) (*ProjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.Errors["Status"]; ok {
		return nil, err
	}

	info := &ProjectInfo{Name: p.Name}
	if m.Running[p.Name] {
		info.Containers = []string{"mock-" + p.Name}
	}
	return info, nil
}

// Ensure MockRuntime implements Runtime
var _ Runtime = (*MockRuntime)(nil)

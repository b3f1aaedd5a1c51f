package hwid

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
)

type execCall struct {
	Name string
	Args []string
}

func (c execCall) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// fakeExecutor records every call and answers through fn.
type fakeExecutor struct {
	mu    sync.Mutex
	calls []execCall
	fn    func(name string, args []string) (string, error)
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, execCall{Name: name, Args: append([]string(nil), args...)})
	f.mu.Unlock()
	if f.fn == nil {
		return "", &CommandError{Command: name, ExitCode: 1, Stderr: "not stubbed"}
	}
	return f.fn(name, args)
}

func (f *fakeExecutor) Calls() []execCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]execCall(nil), f.calls...)
}

// fakeRegistry is an in-memory HKLM.
type fakeRegistry struct {
	values   map[string]map[string]string
	writes   []string
	calls    int
	writeErr error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{values: make(map[string]map[string]string)}
}

func (r *fakeRegistry) set(path, name, value string) {
	if r.values[path] == nil {
		r.values[path] = make(map[string]string)
	}
	r.values[path][name] = value
}

func (r *fakeRegistry) ReadString(path, name string) (string, error) {
	r.calls++
	v, ok := r.values[path][name]
	if !ok {
		return "", &Error{Kind: KindKeyNotFound, Message: path + `\` + name}
	}
	return v, nil
}

func (r *fakeRegistry) WriteString(path, name, value string) error {
	r.calls++
	if r.writeErr != nil {
		return r.writeErr
	}
	r.writes = append(r.writes, path+`\`+name+"="+value)
	r.set(path, name, value)
	return nil
}

func (r *fakeRegistry) SubKeyNames(path string) ([]string, error) {
	r.calls++
	prefix := path + `\`
	var names []string
	for p := range r.values {
		if rest, ok := strings.CutPrefix(p, prefix); ok && !strings.Contains(rest, `\`) {
			names = append(names, rest)
		}
	}
	return names, nil
}

func staticProbe(name, value string, err error) Probe {
	return NewProbe(name, func(context.Context) (string, error) { return value, err })
}

func mustMAC(t *testing.T, s string) net.HardwareAddr {
	t.Helper()
	hw, err := net.ParseMAC(s)
	if err != nil {
		t.Fatalf("ParseMAC(%q): %v", s, err)
	}
	return hw
}

// newTestGateway returns a gateway with every OS collaborator faked.
func newTestGateway(t *testing.T, elevated bool, opts ...Option) (*Gateway, *fakeExecutor, *fakeRegistry) {
	t.Helper()
	exec := &fakeExecutor{}
	reg := newFakeRegistry()
	base := []Option{
		WithExecutor(exec),
		WithRegistry(reg),
		WithElevation(func() bool { return elevated }),
		WithRelauncher(func() error { t.Fatal("unexpected relaunch"); return nil }),
		WithExit(func(int) { t.Fatal("unexpected exit") }),
		WithInterfaces(func() ([]net.Interface, error) { return nil, nil }),
		WithHostInfo(func(context.Context) HostInfo { return HostInfo{Platform: "test", Hostname: "host"} }),
		WithRestartDelay(0),
		WithTempDir(t.TempDir()),
	}
	return New(append(base, opts...)...), exec, reg
}

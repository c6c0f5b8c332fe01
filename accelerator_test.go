package diffract

import (
	"errors"
	"sync"
	"testing"
)

// mockAccelerator implements Accelerator for testing.
type mockAccelerator struct {
	name      string
	initErr   error
	closed    bool
	canAccel  AcceleratedOp
	provider  any
	convCalls int
	mu        sync.Mutex
}

func (m *mockAccelerator) Name() string { return m.name }

func (m *mockAccelerator) Init() error { return m.initErr }

func (m *mockAccelerator) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockAccelerator) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockAccelerator) CanAccelerate(op AcceleratedOp) bool {
	return m.canAccel&op != 0
}

func (m *mockAccelerator) Propagate(_, _ []float64, _ int, _, _, _ float64) error {
	return ErrFallbackToCPU
}

func (m *mockAccelerator) Convolve(_, _ []float64, _, _ int, _ []float64, _ int) error {
	m.mu.Lock()
	m.convCalls++
	m.mu.Unlock()
	return ErrFallbackToCPU
}

func (m *mockAccelerator) SetDeviceProvider(provider any) error {
	m.mu.Lock()
	m.provider = provider
	m.mu.Unlock()
	return nil
}

// resetAccelerator clears the global accelerator state between tests.
func resetAccelerator() {
	accelMu.Lock()
	accel = nil
	accelMu.Unlock()
}

func TestRegisterAcceleratorNil(t *testing.T) {
	resetAccelerator()

	err := RegisterAccelerator(nil)
	if err == nil {
		t.Fatal("expected error when registering nil accelerator")
	}
	if err.Error() != "diffract: accelerator must not be nil" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if RegisteredAccelerator() != nil {
		t.Error("accelerator should remain nil after failed registration")
	}
}

func TestRegisterAcceleratorInitError(t *testing.T) {
	resetAccelerator()

	initErr := errors.New("device init failed")
	mock := &mockAccelerator{name: "failing", initErr: initErr}

	err := RegisterAccelerator(mock)
	if err == nil {
		t.Fatal("expected error when Init fails")
	}
	if !errors.Is(err, initErr) {
		t.Errorf("expected init error, got: %v", err)
	}
	if RegisteredAccelerator() != nil {
		t.Error("accelerator should remain nil after Init failure")
	}
}

func TestRegisterAcceleratorSuccess(t *testing.T) {
	resetAccelerator()

	mock := &mockAccelerator{name: "test-accel", canAccel: AccelConvolve}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := RegisteredAccelerator()
	if a == nil {
		t.Fatal("expected non-nil accelerator after registration")
	}
	if a.Name() != "test-accel" {
		t.Errorf("expected name %q, got %q", "test-accel", a.Name())
	}

	resetAccelerator()
}

func TestRegisterAcceleratorReplacesOld(t *testing.T) {
	resetAccelerator()

	first := &mockAccelerator{name: "first"}
	second := &mockAccelerator{name: "second"}

	if err := RegisterAccelerator(first); err != nil {
		t.Fatal(err)
	}
	if err := RegisterAccelerator(second); err != nil {
		t.Fatal(err)
	}

	if got := RegisteredAccelerator().Name(); got != "second" {
		t.Errorf("registered accelerator is %q, want second", got)
	}
	if !first.isClosed() {
		t.Error("replaced accelerator was not closed")
	}
	if second.isClosed() {
		t.Error("current accelerator must stay open")
	}

	resetAccelerator()
}

func TestCanAccelerate(t *testing.T) {
	mock := &mockAccelerator{canAccel: AccelConvolve}
	if mock.CanAccelerate(AccelPropagate) {
		t.Error("CanAccelerate(AccelPropagate) = true, want false")
	}
	if !mock.CanAccelerate(AccelConvolve) {
		t.Error("CanAccelerate(AccelConvolve) = false, want true")
	}
}

func TestSetAcceleratorDeviceProvider(t *testing.T) {
	resetAccelerator()

	// Without an accelerator this is a no-op.
	if err := SetAcceleratorDeviceProvider("anything"); err != nil {
		t.Fatalf("unexpected error with no accelerator: %v", err)
	}

	mock := &mockAccelerator{name: "sharing"}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatal(err)
	}
	provider := struct{ tag string }{"host-device"}
	if err := SetAcceleratorDeviceProvider(provider); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mock.mu.Lock()
	got := mock.provider
	mock.mu.Unlock()
	if got != any(provider) {
		t.Errorf("provider not passed through: %v", got)
	}

	resetAccelerator()
}

func TestPipelineFallsBackFromAccelerator(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	// The mock claims convolution support but always asks for fallback;
	// the simulation must still succeed on the CPU path.
	mock := &mockAccelerator{name: "fallback", canAccel: AccelConvolve}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatal(err)
	}

	req := Request{
		Aperture: aperturePinhole(),
		Camera:   Camera{FocalLengthMM: 50},
		Source:   grayPixmap(16, 16, 128),
		Options:  Options{DisableDiffraction: true, MaxImageDim: -1},
	}
	out, err := Simulate(req)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if out == nil {
		t.Fatal("Simulate returned nil image")
	}

	mock.mu.Lock()
	calls := mock.convCalls
	mock.mu.Unlock()
	if calls == 0 {
		t.Error("accelerator was never consulted")
	}
}

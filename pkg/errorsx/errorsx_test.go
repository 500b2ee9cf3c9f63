package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonDecide)
	if Reason(err) != ReasonDecide {
		t.Fatalf("expected reason %s, got %s", ReasonDecide, Reason(err))
	}
	if !HasReason(err, ReasonDecide) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonDeviceUtterance)
	second := Wrap(first, ReasonTranscribe)
	if Reason(second) != ReasonDeviceUtterance {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestDeviceReason(t *testing.T) {
	if !DeviceReason(ReasonDeviceFrame) {
		t.Fatalf("device_frame should be a device reason")
	}
	if DeviceReason(ReasonDecide) {
		t.Fatalf("vlm_decide is not a device reason")
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

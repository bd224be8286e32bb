package mcpargs

import "testing"

func TestOptionalBool(t *testing.T) {
	var unset OptionalBool

	if got := unset.Ptr(); got != nil {
		t.Errorf("Ptr() on the zero value = %v, want nil", *got)
	}

	if got := unset.ValueOr(true); got != true {
		t.Errorf("ValueOr(true) on the zero value = %v, want the fallback", got)
	}

	var explicit OptionalBool
	if err := explicit.Unmarshal(false); err != nil {
		t.Fatalf("Unmarshal(false) = %v", err)
	}

	if got := explicit.Ptr(); got == nil || *got != false {
		t.Errorf("Ptr() after Unmarshal(false) = %v, want a pointer to false", got)
	}

	if got := explicit.ValueOr(true); got != false {
		t.Errorf("ValueOr(true) after Unmarshal(false) = %v, want the explicit false", got)
	}

	var truthy OptionalBool
	if err := truthy.Unmarshal(true); err != nil {
		t.Fatalf("Unmarshal(true) = %v", err)
	}

	if got := truthy.Ptr(); got == nil || *got != true {
		t.Errorf("Ptr() after Unmarshal(true) = %v, want a pointer to true", got)
	}
}

func TestOptionalBoolUnmarshalNonBool(t *testing.T) {
	var o OptionalBool
	if err := o.Unmarshal("yes"); err != nil {
		t.Fatalf("Unmarshal(string) = %v", err)
	}

	// Anything but a bool leaves the value unset.
	if got := o.Ptr(); got != nil {
		t.Errorf("Ptr() after a non-bool = %v, want nil", *got)
	}
}

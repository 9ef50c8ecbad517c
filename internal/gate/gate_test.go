package gate

import "testing"

func TestGate(t *testing.T) {
	g := New()

	if !g.ShouldProcess("a") {
		t.Fatal("Expected first payload to be processed")
	}
	g.MarkSeen("a")
	if g.ShouldProcess("a") {
		t.Error("Expected repeated payload to be skipped")
	}
	if !g.ShouldProcess("b") {
		t.Error("Expected new payload to be processed")
	}

	g.MarkSeen("b")
	if !g.ShouldProcess("a") {
		t.Error("Expected gate to hold only one slot")
	}

	last, ok := g.LastSeen()
	if !ok || last != "b" {
		t.Errorf("Expected last seen b, got %q (%v)", last, ok)
	}
}

func TestGateEmptyIdentifier(t *testing.T) {
	g := New()
	if !g.ShouldProcess("") {
		t.Fatal("Expected empty identifier to pass on a fresh gate")
	}
	g.MarkSeen("")
	if g.ShouldProcess("") {
		t.Error("Expected empty identifier to be skipped once seen")
	}

	g.Reset()
	if !g.ShouldProcess("") {
		t.Error("Expected reset gate to pass")
	}
}

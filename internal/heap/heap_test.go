package heap

import "testing"

// TestHeap_RetainAndReleaseTag tests that buffers retained under a tag
// are counted by Len and dropped in bulk by ReleaseTag.
// Given: two buffers retained under the same tag
// When: ReleaseTag is called for that tag
// Then: Len reports zero for it afterward
func TestHeap_RetainAndReleaseTag(t *testing.T) {
	h := NewHeap()

	h.retain("fiber-1", []byte("a"))
	h.retain("fiber-1", []byte("b"))

	if got := h.Len("fiber-1"); got != 2 {
		t.Fatalf("Len = %d, want 2", got)
	}

	h.ReleaseTag("fiber-1")

	if got := h.Len("fiber-1"); got != 0 {
		t.Fatalf("Len after ReleaseTag = %d, want 0", got)
	}
}

// TestHeap_TagsAreIndependent tests that releasing one tag never
// touches another's buffers.
func TestHeap_TagsAreIndependent(t *testing.T) {
	h := NewHeap()

	h.retain("a", []byte("x"))
	h.retain("b", []byte("y"))

	h.ReleaseTag("a")

	if got := h.Len("a"); got != 0 {
		t.Fatalf("Len(a) = %d, want 0", got)
	}
	if got := h.Len("b"); got != 1 {
		t.Fatalf("Len(b) = %d, want 1", got)
	}
}

// TestAllocator_AllocateExhaustsArena tests that Allocate returns
// consecutive slices until the arena is full, then nil.
// Given: a 4-byte arena
// When: 4 one-byte allocations are made, then a fifth
// Then: the first four succeed and don't overlap, the fifth is nil
func TestAllocator_AllocateExhaustsArena(t *testing.T) {
	a := NewAllocator(NewHeap(), "t", 4)

	for i := 0; i < 4; i++ {
		buf := a.Allocate(1)
		if buf == nil {
			t.Fatalf("Allocate(%d): got nil, want a 1-byte slice", i)
		}
		buf[0] = byte(i)
	}

	if buf := a.Allocate(1); buf != nil {
		t.Fatalf("Allocate on exhausted arena: got %v, want nil", buf)
	}
}

// TestAllocator_ResetReclaimsArena tests that Reset rewinds the
// allocator so it can be reused by a subsequent task.
func TestAllocator_ResetReclaimsArena(t *testing.T) {
	a := NewAllocator(NewHeap(), "t", 2)

	if buf := a.Allocate(2); buf == nil {
		t.Fatalf("Allocate(2): got nil, want a 2-byte slice")
	}
	if buf := a.Allocate(1); buf != nil {
		t.Fatalf("Allocate on exhausted arena: got %v, want nil", buf)
	}

	a.Reset()

	if buf := a.Allocate(2); buf == nil {
		t.Fatalf("Allocate(2) after Reset: got nil, want a 2-byte slice")
	}
}

// TestAllocator_RetainSurvivesReset tests that a buffer handed to
// Retain is visible through the owning Heap even after the allocator
// that carved it is reset.
func TestAllocator_RetainSurvivesReset(t *testing.T) {
	h := NewHeap()
	a := NewAllocator(h, "fiber-3", 8)

	buf := a.Allocate(3)
	a.Retain(buf)
	a.Reset()

	if got := h.Len("fiber-3"); got != 1 {
		t.Fatalf("Len(fiber-3) = %d, want 1", got)
	}
}

package search

import "testing"

func testDocs() []Doc {
	return []Doc{
		{ID: 1, Text: "Landing page design for a coffee shop"},
		{ID: 2, Text: "Telegram bot for order intake and support"},
		{ID: 3, Text: "Logo design and brand identity"},
		{ID: 4, Text: "   "},
		{ID: 5, Text: "ok"},
	}
}

func TestNewIndex_SkipsEmptyAndShort(t *testing.T) {
	idx := NewIndex(testDocs()).(*index)
	if got := len(idx.docs); got != 3 {
		t.Fatalf("docs = %d, want 3", got)
	}
}

func TestTopK_RanksByOverlap(t *testing.T) {
	idx := NewIndex(testDocs())

	res := idx.TopK("logo design", 5)
	if len(res) == 0 {
		t.Fatal("expected results")
	}
	if res[0].OrderID != 3 {
		t.Fatalf("top result = #%d, want #3", res[0].OrderID)
	}
	if res[0].Score <= 0 || res[0].Score > 1 {
		t.Fatalf("score out of range: %v", res[0].Score)
	}
}

func TestTopK_NoMatchReturnsNil(t *testing.T) {
	idx := NewIndex(testDocs())
	if res := idx.TopK("quantum chromodynamics", 3); res != nil {
		t.Fatalf("expected nil, got %v", res)
	}
}

func TestTopK_EmptyQueryAndEmptyIndex(t *testing.T) {
	idx := NewIndex(testDocs())
	if res := idx.TopK("   ", 3); res != nil {
		t.Fatalf("blank query: expected nil, got %v", res)
	}
	empty := NewIndex(nil)
	if res := empty.TopK("design", 3); res != nil {
		t.Fatalf("empty index: expected nil, got %v", res)
	}
}

func TestTopK_CapsAtK(t *testing.T) {
	idx := NewIndex([]Doc{
		{ID: 1, Text: "site design one"},
		{ID: 2, Text: "site design two"},
		{ID: 3, Text: "site design three"},
	})
	res := idx.TopK("site design", 2)
	if len(res) != 2 {
		t.Fatalf("len = %d, want 2", len(res))
	}
}

func TestTopK_StopwordsRemoved(t *testing.T) {
	idx := NewIndex(testDocs(), WithStopwords([]string{"for", "a", "and"}))
	res := idx.TopK("bot for support", 3)
	if len(res) == 0 || res[0].OrderID != 2 {
		t.Fatalf("want #2 first, got %v", res)
	}
}

func TestTopK_DeterministicTieBreak(t *testing.T) {
	idx := NewIndex([]Doc{
		{ID: 7, Text: "repair work"},
		{ID: 2, Text: "repair team"},
	})
	a := idx.TopK("repair", 2)
	b := idx.TopK("repair", 2)
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("want 2 results, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].OrderID != b[i].OrderID {
			t.Fatalf("non-deterministic order: %v vs %v", a, b)
		}
	}
	// equal score and length, lower id wins
	if a[0].OrderID != 2 {
		t.Fatalf("tie break: want #2 first, got #%d", a[0].OrderID)
	}
}

func TestWithMaxDocs(t *testing.T) {
	idx := NewIndex(testDocs(), WithMaxDocs(1)).(*index)
	if len(idx.docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(idx.docs))
	}
}

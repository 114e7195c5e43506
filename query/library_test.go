package query

import "testing"

func TestLibrarySelect(t *testing.T) {
	lib := DefaultLibrary()

	text, ok := lib.Select("tables")
	if !ok || text == "" {
		t.Fatalf("Expected example text for known id, got %q %v", text, ok)
	}

	if _, ok := lib.Select("no-such-example"); ok {
		t.Error("Unknown id should not resolve")
	}
}

func TestLibraryExamplesStable(t *testing.T) {
	lib := DefaultLibrary()

	first := lib.Examples()
	second := lib.Examples()
	if len(first) == 0 {
		t.Fatal("Default library should not be empty")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("Example order should be stable, got %q vs %q", first[i].ID, second[i].ID)
		}
	}

	// Mutating the returned slice must not affect the library.
	first[0].Name = "mutated"
	if lib.Examples()[0].Name == "mutated" {
		t.Error("Examples should return a copy")
	}
}

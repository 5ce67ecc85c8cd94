package store

import (
	"regexp"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDv7Generator_ValidFormat(t *testing.T) {
	gen := UUIDv7Generator{}
	suffix := gen.Generate()

	if len(suffix) != 36 {
		t.Errorf("suffix length = %d, want 36", len(suffix))
	}

	parsed, err := uuid.Parse(suffix)
	if err != nil {
		t.Fatalf("suffix %q is not a valid UUID: %v", suffix, err)
	}
	if parsed.Version() != uuid.Version(7) {
		t.Errorf("UUID version = %d, want 7", parsed.Version())
	}

	hyphenated := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	if !hyphenated.MatchString(suffix) {
		t.Errorf("suffix %q is not in hyphenated form", suffix)
	}
}

func TestUUIDv7Generator_Uniqueness(t *testing.T) {
	gen := UUIDv7Generator{}
	const iterations = 1000

	seen := make(map[string]bool, iterations)
	for i := 0; i < iterations; i++ {
		suffix := gen.Generate()
		if seen[suffix] {
			t.Fatalf("suffix %s generated twice", suffix)
		}
		seen[suffix] = true
	}
}

func TestUUIDv7Generator_TimeOrdered(t *testing.T) {
	// Record names sort lexicographically in append order because the
	// timestamp occupies the most significant suffix bits.
	gen := UUIDv7Generator{}

	suffixes := make([]string, 50)
	for i := range suffixes {
		suffixes[i] = gen.Generate()
	}

	if !sort.StringsAreSorted(suffixes) {
		t.Error("sequentially generated suffixes are not in lexicographic order")
	}
}

func TestUUIDv7Generator_Concurrent(t *testing.T) {
	gen := UUIDv7Generator{}
	const goroutines = 100

	suffixes := make(chan string, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			suffixes <- gen.Generate()
		}()
	}
	wg.Wait()
	close(suffixes)

	seen := make(map[string]bool)
	for suffix := range suffixes {
		if seen[suffix] {
			t.Fatal("duplicate suffix generated")
		}
		seen[suffix] = true
	}
	if len(seen) != goroutines {
		t.Errorf("unique suffixes = %d, want %d", len(seen), goroutines)
	}
}

func TestFixedGenerator_Sequential(t *testing.T) {
	gen := NewFixedGenerator("s-1", "s-2", "s-3")

	for _, want := range []string{"s-1", "s-2", "s-3"} {
		if got := gen.Generate(); got != want {
			t.Errorf("Generate() = %q, want %q", got, want)
		}
	}
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	gen := NewFixedGenerator("only")
	if got := gen.Generate(); got != "only" {
		t.Fatalf("Generate() = %q, want %q", got, "only")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic when all suffixes are exhausted")
		}
	}()
	gen.Generate()
}

func TestFixedGenerator_EmptyPanicsImmediately(t *testing.T) {
	gen := NewFixedGenerator()

	defer func() {
		if recover() == nil {
			t.Error("expected panic when no suffixes were provided")
		}
	}()
	gen.Generate()
}

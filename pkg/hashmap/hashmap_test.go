package hashmap

import (
	"errors"
	"testing"

	"github.com/TallyKit/tally/pkg/hasher"
)

func TestMapBasicOperations(t *testing.T) {
	m := New[string, int](nil)

	m.Insert("one", 1)
	m.Insert("two", 2)
	m.Insert("three", 3)

	if m.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", m.Len())
	}

	v, ok := m.Find("two")
	if !ok {
		t.Fatalf("expected to find key two")
	}
	if v != 2 {
		t.Errorf("expected value 2, got %d", v)
	}

	if _, ok := m.Find("four"); ok {
		t.Errorf("expected key four to be absent")
	}
}

func TestInsertOverwritesExistingKey(t *testing.T) {
	m := New[string, int](nil)

	m.Insert("key", 1)
	m.Insert("key", 2)

	if m.Len() != 1 {
		t.Errorf("overwrite should not change count, got %d", m.Len())
	}
	if v, _ := m.Find("key"); v != 2 {
		t.Errorf("expected overwritten value 2, got %d", v)
	}
}

func TestErase(t *testing.T) {
	m := New[int, string](nil)

	m.Insert(1, "a")
	m.Insert(2, "b")

	if !m.Erase(1) {
		t.Errorf("expected Erase(1) to report removal")
	}
	if m.Erase(1) {
		t.Errorf("expected second Erase(1) to report nothing removed")
	}
	if m.Erase(99) {
		t.Errorf("expected Erase of absent key to report nothing removed")
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 entry after erase, got %d", m.Len())
	}
	if _, ok := m.Find(1); ok {
		t.Errorf("erased key should not be findable")
	}
	if v, ok := m.Find(2); !ok || v != "b" {
		t.Errorf("unrelated key lost after erase")
	}
}

func TestFindAfterInsertEraseSequences(t *testing.T) {
	m := New[int, int](nil)

	// find(k) after insert(k, v) returns v until erase(k) or overwrite
	m.Insert(10, 100)
	if v, ok := m.Find(10); !ok || v != 100 {
		t.Fatalf("Find(10) = %d, %v; want 100, true", v, ok)
	}

	m.Insert(10, 200)
	if v, _ := m.Find(10); v != 200 {
		t.Errorf("Find after overwrite = %d, want 200", v)
	}

	m.Erase(10)
	if _, ok := m.Find(10); ok {
		t.Errorf("Find after erase should report absence")
	}

	// count = distinct inserts - successful erases
	for i := 0; i < 50; i++ {
		m.Insert(i, i)
	}
	for i := 0; i < 20; i++ {
		m.Erase(i)
	}
	if m.Len() != 30 {
		t.Errorf("expected count 30, got %d", m.Len())
	}
}

func TestResizeTransparency(t *testing.T) {
	m := New[int, int](nil)

	if m.BucketCount() != DefaultBucketCount {
		t.Fatalf("expected %d initial buckets, got %d", DefaultBucketCount, m.BucketCount())
	}

	// 16 buckets * 0.75 = 12: the 12th distinct key keeps the load
	// factor at the threshold, the 13th crosses it.
	for i := 1; i <= 12; i++ {
		m.Insert(i, i*10)
	}
	if m.Rehashes() != 0 {
		t.Fatalf("no rehash expected at the threshold, got %d", m.Rehashes())
	}

	m.Insert(13, 130)
	if m.Rehashes() != 1 {
		t.Fatalf("expected exactly one rehash, got %d", m.Rehashes())
	}
	if m.BucketCount() != 2*DefaultBucketCount {
		t.Errorf("expected capacity doubled to %d, got %d", 2*DefaultBucketCount, m.BucketCount())
	}

	// Every previously inserted key must remain findable with its value
	for i := 1; i <= 13; i++ {
		v, ok := m.Find(i)
		if !ok {
			t.Errorf("key %d lost across rehash", i)
			continue
		}
		if v != i*10 {
			t.Errorf("key %d has value %d after rehash, want %d", i, v, i*10)
		}
	}
}

func TestRefInsertsZeroValue(t *testing.T) {
	m := New[string, int](nil)

	p := m.Ref("counter")
	if *p != 0 {
		t.Fatalf("expected zero-initialized value, got %d", *p)
	}
	*p = 5

	if v, _ := m.Find("counter"); v != 5 {
		t.Errorf("write through Ref not visible, got %d", v)
	}

	// Existing key: Ref must alias the stored value, not insert
	*m.Ref("counter")++
	if v, _ := m.Find("counter"); v != 6 {
		t.Errorf("increment through Ref not visible, got %d", v)
	}
	if m.Len() != 1 {
		t.Errorf("Ref on existing key must not change count, got %d", m.Len())
	}
}

func TestRefTriggersGrowth(t *testing.T) {
	m := New[int, int](nil)

	// Drive all insertions through Ref; the 13th must rehash and the
	// returned pointer must still address the new entry.
	for i := 1; i <= 13; i++ {
		*m.Ref(i) = i
	}
	if m.Rehashes() != 1 {
		t.Fatalf("expected one rehash via Ref growth, got %d", m.Rehashes())
	}
	for i := 1; i <= 13; i++ {
		if v, ok := m.Find(i); !ok || v != i {
			t.Errorf("key %d = %d, %v after Ref-driven growth", i, v, ok)
		}
	}
}

func TestEntriesSnapshot(t *testing.T) {
	m := New[int, int](nil)

	want := map[int]int{}
	for i := 0; i < 40; i++ {
		m.Insert(i, i*i)
		want[i] = i * i
	}

	entries := m.Entries()
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}

	seen := map[int]bool{}
	for _, e := range entries {
		if seen[e.Key] {
			t.Errorf("duplicate key %d in snapshot", e.Key)
		}
		seen[e.Key] = true
		if want[e.Key] != e.Value {
			t.Errorf("entry %d has value %d, want %d", e.Key, e.Value, want[e.Key])
		}
	}

	// The snapshot is a copy: mutating it must not affect the map
	if len(entries) > 0 {
		entries[0].Value = -1
		if v, _ := m.Find(entries[0].Key); v == -1 {
			t.Errorf("snapshot mutation leaked into the map")
		}
	}
}

func TestEntriesOrderStableForFixedInsertSequence(t *testing.T) {
	build := func() []Entry[int, int] {
		m := New[int, int](nil)
		for _, k := range []int{4, 5, 2, 7, 9, 1} {
			m.Insert(k, k)
		}
		return m.Entries()
	}

	a, b := build(), build()
	if len(a) != len(b) {
		t.Fatalf("snapshot lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("snapshot order differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestNewWithCapacity(t *testing.T) {
	if _, err := NewWithCapacity[int, int](nil, 0); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("expected ErrInvalidCapacity for 0 buckets, got %v", err)
	}
	if _, err := NewWithCapacity[int, int](nil, -4); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("expected ErrInvalidCapacity for negative buckets, got %v", err)
	}

	m, err := NewWithCapacity[int, int](nil, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A single bucket degenerates to a linked chain but must stay correct
	for i := 0; i < 10; i++ {
		m.Insert(i, i)
	}
	for i := 0; i < 10; i++ {
		if v, ok := m.Find(i); !ok || v != i {
			t.Errorf("single-bucket map lost key %d", i)
		}
	}
}

func TestCustomHasher(t *testing.T) {
	// A constant hasher forces every key into one chain; correctness
	// must not depend on distribution.
	collide := hasher.Func[int](func(int) uint64 { return 42 })
	m := New[int, int](collide)

	for i := 0; i < 20; i++ {
		m.Insert(i, i+1)
	}
	for i := 0; i < 20; i++ {
		if v, ok := m.Find(i); !ok || v != i+1 {
			t.Errorf("colliding map lost key %d", i)
		}
	}
	if !m.Erase(7) {
		t.Errorf("expected to erase key 7 from chain")
	}
	if _, ok := m.Find(7); ok {
		t.Errorf("key 7 still findable after erase")
	}
}

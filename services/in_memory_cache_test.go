package services

import (
	"fmt"
	"sync"
	"testing"
)

func TestLPushPrepends(t *testing.T) {
	cache := NewInMemoryCache()

	for i := 1; i <= 3; i++ {
		length, err := cache.LPush("key", fmt.Sprintf("v%d", i))
		if err != nil {
			t.Fatalf("LPush failed: %v", err)
		}
		if length != i {
			t.Errorf("Expected length %d, got %d", i, length)
		}
	}

	list, err := cache.LRange("key", 0, -1)
	if err != nil {
		t.Fatalf("LRange failed: %v", err)
	}

	expected := []string{"v3", "v2", "v1"}
	if len(list) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(list))
	}
	for i, v := range expected {
		if list[i] != v {
			t.Errorf("Expected '%s' at position %d, got '%s'", v, i, list[i])
		}
	}
}

func TestLRangeMissingKey(t *testing.T) {
	cache := NewInMemoryCache()

	list, err := cache.LRange("missing", 0, 9)
	if err != nil {
		t.Fatalf("LRange failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected empty list, got %d entries", len(list))
	}
}

func TestLRangeBounds(t *testing.T) {
	cache := NewInMemoryCache()
	for i := 1; i <= 5; i++ {
		cache.LPush("key", fmt.Sprintf("v%d", i))
	}
	// 列表现在是 v5 v4 v3 v2 v1

	list, _ := cache.LRange("key", 0, 2)
	if len(list) != 3 || list[0] != "v5" || list[2] != "v3" {
		t.Errorf("Expected [v5 v4 v3], got %v", list)
	}

	// stop 超出范围时截断到末尾
	list, _ = cache.LRange("key", 0, 100)
	if len(list) != 5 {
		t.Errorf("Expected 5 entries, got %d", len(list))
	}

	// 负数下标从尾部倒数
	list, _ = cache.LRange("key", -2, -1)
	if len(list) != 2 || list[0] != "v2" || list[1] != "v1" {
		t.Errorf("Expected [v2 v1], got %v", list)
	}

	// 空区间
	list, _ = cache.LRange("key", 3, 1)
	if len(list) != 0 {
		t.Errorf("Expected empty list, got %v", list)
	}
}

func TestLTrimCapsList(t *testing.T) {
	cache := NewInMemoryCache()

	for i := 1; i <= 15; i++ {
		cache.LPush("key", fmt.Sprintf("v%d", i))
		cache.LTrim("key", 0, 9)
	}

	list, _ := cache.LRange("key", 0, -1)
	if len(list) != 10 {
		t.Fatalf("Expected 10 entries after trim, got %d", len(list))
	}
	if list[0] != "v15" {
		t.Errorf("Expected newest entry 'v15' first, got '%s'", list[0])
	}
	if list[9] != "v6" {
		t.Errorf("Expected oldest retained entry 'v6' last, got '%s'", list[9])
	}
}

func TestLTrimEmptyRangeDeletesKey(t *testing.T) {
	cache := NewInMemoryCache()
	cache.LPush("key", "v1")

	if err := cache.LTrim("key", 5, 10); err != nil {
		t.Fatalf("LTrim failed: %v", err)
	}

	list, _ := cache.LRange("key", 0, -1)
	if len(list) != 0 {
		t.Errorf("Expected key deleted, got %v", list)
	}
}

func TestIncrSequence(t *testing.T) {
	cache := NewInMemoryCache()

	for i := int64(1); i <= 5; i++ {
		value, err := cache.Incr("counter")
		if err != nil {
			t.Fatalf("Incr failed: %v", err)
		}
		if value != i {
			t.Errorf("Expected %d, got %d", i, value)
		}
	}
}

func TestIncrConcurrentUniqueness(t *testing.T) {
	cache := NewInMemoryCache()

	const workers = 50
	const perWorker = 20

	results := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				value, err := cache.Incr("counter")
				if err != nil {
					t.Errorf("Incr failed: %v", err)
					return
				}
				results <- value
			}
		}()
	}

	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for value := range results {
		if seen[value] {
			t.Fatalf("Duplicate counter value %d", value)
		}
		seen[value] = true
	}

	if len(seen) != workers*perWorker {
		t.Errorf("Expected %d unique values, got %d", workers*perWorker, len(seen))
	}
}

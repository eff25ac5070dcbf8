package cache

import (
	"fmt"
	"testing"
	"time"
)

type benchCard struct {
	City, State, Service string
}

// BenchmarkMemory_Get_Hit measures the read path for a live entry.
func BenchmarkMemory_Get_Hit(b *testing.B) {
	c := New[*benchCard](Config{TTL: time.Hour, MaxSize: 1000})
	key := BuildKey("local-data-card", Params{"city": "Austin", "state": "TX", "service": "seo"})
	c.Set(key, &benchCard{City: "Austin", State: "TX", Service: "seo"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(key)
	}
}

// BenchmarkMemory_Get_Miss measures the read path for an absent key.
func BenchmarkMemory_Get_Miss(b *testing.B) {
	c := New[*benchCard](Config{TTL: time.Hour, MaxSize: 1000})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get("local-data-card:city:Nowhere")
	}
}

// BenchmarkMemory_Set_Evict measures writes once the cache is full, so
// every insert evicts the oldest entry.
func BenchmarkMemory_Set_Evict(b *testing.B) {
	const size = 500
	c := New[*benchCard](Config{TTL: time.Hour, MaxSize: size})
	keys := make([]string, 4*size)
	for i := range keys {
		keys[i] = fmt.Sprintf("proof-slot:city:c%d", i)
	}
	card := &benchCard{}
	for _, k := range keys[:size] {
		c.Set(k, card)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(keys[i%len(keys)], card)
	}
}

// BenchmarkMemory_Get_Parallel measures contended reads.
func BenchmarkMemory_Get_Parallel(b *testing.B) {
	c := New[*benchCard](Config{TTL: time.Hour, MaxSize: 1000})
	c.Set("k", &benchCard{})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = c.Get("k")
		}
	})
}

// BenchmarkKeyer measures key construction for a three-parameter input.
func BenchmarkKeyer(b *testing.B) {
	params := Params{"city": "Austin", "state": "TX", "service": "seo"}
	keyers := map[string]Keyer{"default": NewDefaultKeyer(), "hashed": NewHashedKeyer()}
	for name, k := range keyers {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = k.Key("local-data-card", params)
			}
		})
	}
}

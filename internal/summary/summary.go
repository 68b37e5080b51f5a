// Package summary computes the aggregate figures shown on summary cards.
// Every function makes a fresh pass over its input.
package summary

import "math"

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}

func Sum[T any, N Number](items []T, field func(T) N) N {
	var total N
	for _, it := range items {
		total += field(it)
	}
	return total
}

// Average returns the mean of field over items rounded half up. An empty
// collection averages to 0.
func Average[T any, N Number](items []T, field func(T) N) int {
	if len(items) == 0 {
		return 0
	}
	mean := float64(Sum(items, field)) / float64(len(items))
	return Round(mean)
}

// Round rounds half up, so 2.5 becomes 3 and -2.5 becomes -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Distinct returns the unique keys of items in order of first appearance.
func Distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// GroupCount counts items per key. Buckets follow the order of keys, and
// keys with no items are reported with a zero count.
func GroupCount[T any](items []T, key func(T) string, keys []string) []Bucket {
	counts := make(map[string]int, len(keys))
	for _, it := range items {
		counts[key(it)]++
	}
	out := make([]Bucket, len(keys))
	for i, k := range keys {
		out[i] = Bucket{Key: k, Count: counts[k]}
	}
	return out
}

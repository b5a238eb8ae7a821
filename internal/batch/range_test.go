package batch

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ranfuzz/ranfuzz-ctl/internal/network"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		size int
		want []Batch
	}{
		{
			name: "short last batch",
			r:    Range{0, 9},
			size: 4,
			want: []Batch{
				{Number: 1, Range: Range{0, 3}},
				{Number: 2, Range: Range{4, 7}},
				{Number: 3, Range: Range{8, 9}},
			},
		},
		{
			name: "exact multiple",
			r:    Range{4, 11},
			size: 4,
			want: []Batch{
				{Number: 1, Range: Range{4, 7}},
				{Number: 2, Range: Range{8, 11}},
			},
		},
		{
			name: "single index",
			r:    Range{5, 5},
			size: 4,
			want: []Batch{{Number: 1, Range: Range{5, 5}}},
		},
		{
			name: "size one",
			r:    Range{0, 2},
			size: 1,
			want: []Batch{
				{Number: 1, Range: Range{0, 0}},
				{Number: 2, Range: Range{1, 1}},
				{Number: 3, Range: Range{2, 2}},
			},
		},
		{
			name: "range smaller than size",
			r:    Range{10, 12},
			size: 8,
			want: []Batch{{Number: 1, Range: Range{10, 12}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Partition(tt.r, tt.size)
			if err != nil {
				t.Fatalf("Partition error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Partition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartition_Errors(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		size int
	}{
		{"zero size", Range{0, 3}, 0},
		{"negative size", Range{0, 3}, -4},
		{"reversed", Range{5, 2}, 4},
		{"negative start", Range{-1, 2}, 4},
		{"beyond address space", Range{0, network.MaxIndex + 1}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Partition(tt.r, tt.size); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPartition_CoversEachIndexOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		start := rng.Intn(1000)
		r := Range{Start: start, End: start + rng.Intn(100)}
		size := 1 + rng.Intn(10)

		batches, err := Partition(r, size)
		if err != nil {
			t.Fatalf("Partition(%v, %d) error: %v", r, size, err)
		}

		next := r.Start
		for j, b := range batches {
			if b.Number != j+1 {
				t.Fatalf("batch %d numbered %d", j, b.Number)
			}
			if b.Start != next {
				t.Fatalf("Partition(%v, %d): batch %d starts at %d, want %d", r, size, j, b.Start, next)
			}
			if b.Len() < 1 || b.Len() > size {
				t.Fatalf("Partition(%v, %d): batch %d has %d indexes", r, size, j, b.Len())
			}
			next = b.End + 1
		}
		if next != r.End+1 {
			t.Fatalf("Partition(%v, %d) ends at %d, want %d", r, size, next-1, r.End)
		}
	}
}

func TestRange(t *testing.T) {
	r, err := NewRange(8, 9)
	if err != nil {
		t.Fatalf("NewRange error: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	if diff := cmp.Diff([]int{8, 9}, r.Indexes()); diff != "" {
		t.Errorf("Indexes mismatch (-want +got):\n%s", diff)
	}
	if r.String() != "[8:9]" {
		t.Errorf("String() = %q", r.String())
	}

	_, err = NewRange(0, network.MaxIndex+1)
	if !errors.Is(err, network.ErrAddressSpaceExhausted) {
		t.Errorf("error = %v, want ErrAddressSpaceExhausted", err)
	}
}

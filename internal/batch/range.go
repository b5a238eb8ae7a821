package batch

import (
	"fmt"

	"github.com/ranfuzz/ranfuzz-ctl/internal/network"
)

// Range is an inclusive span of iteration indexes.
type Range struct {
	Start int
	End   int
}

// NewRange builds and validates a Range.
func NewRange(start, end int) (Range, error) {
	r := Range{Start: start, End: end}
	return r, r.Validate()
}

// Validate checks that the range is non-empty and addressable.
func (r Range) Validate() error {
	if r.Start < 0 {
		return fmt.Errorf("range start must not be negative, got %d", r.Start)
	}
	if r.End < r.Start {
		return fmt.Errorf("range end %d is before start %d", r.End, r.Start)
	}
	if r.End > network.MaxIndex {
		return fmt.Errorf("range end %d: %w", r.End, network.ErrAddressSpaceExhausted)
	}
	return nil
}

// Len returns the number of indexes in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Indexes lists every index in increasing order.
func (r Range) Indexes() []int {
	out := make([]int, 0, r.Len())
	for n := r.Start; n <= r.End; n++ {
		out = append(out, n)
	}
	return out
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d]", r.Start, r.End)
}

// Batch is one start/stop cycle of a fuzz run.
type Batch struct {
	// Number counts batches from 1 within a run.
	Number int
	Range
}

// Partition splits r into consecutive batches of at most size indexes.
// Every index lands in exactly one batch and batches keep index order.
func Partition(r Range, size int) ([]Batch, error) {
	if size < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", size)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	batches := make([]Batch, 0, (r.Len()+size-1)/size)
	for start := r.Start; start <= r.End; start += size {
		end := min(start+size-1, r.End)
		batches = append(batches, Batch{
			Number: len(batches) + 1,
			Range:  Range{Start: start, End: end},
		})
	}
	return batches, nil
}

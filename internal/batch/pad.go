package batch

import (
	"errors"
	"fmt"

	"github.com/example/go-cpmtok/internal/tensor"
)

// ErrBadShape is returned when a batch field's rows disagree on rank or
// exceed rank 3.
var ErrBadShape = errors.New("batch: inconsistent field shape")

// Side selects which end of a padded row receives the padding values.
type Side string

const (
	// SideLeft right-justifies values: padding fills the leading positions.
	SideLeft Side = "left"
	// SideRight left-justifies values: padding fills the trailing positions.
	SideRight Side = "right"
)

// ParseSide converts a configuration string to a Side. Empty selects left,
// the convention expected by decoder-only models.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case "", SideLeft:
		return SideLeft, nil
	case SideRight:
		return SideRight, nil
	default:
		return "", fmt.Errorf("batch: unknown padding side %q (want left|right)", s)
	}
}

// Pad merges one field across bundles into a single padded tensor. Fields
// whose tensor carries more than one leading row are flattened to one row per
// sub-row first. Rank-1 rows concatenate directly. Rank-2 rows sharing one
// length concatenate with no padding; otherwise rows are copied into a
// (rows, maxLen) tensor filled with padValue, right-justified for SideLeft
// and left-justified for SideRight. Rank-3 rows pad the middle dimension the
// same way.
func Pad(bundles []Bundle, field string, padValue int32, side Side) (*tensor.Tensor, error) {
	if len(bundles) == 0 {
		return nil, fmt.Errorf("%w: no bundles for field %q", ErrBadShape, field)
	}

	rows, err := collectRows(bundles, field)
	if err != nil {
		return nil, err
	}

	rank := rows[0].Rank()
	if rank > 3 {
		return nil, fmt.Errorf("%w: field %q rank %d exceeds 3", ErrBadShape, field, rank)
	}
	for i, r := range rows {
		if r.Rank() != rank {
			return nil, fmt.Errorf("%w: field %q row %d rank %d differs from rank %d", ErrBadShape, field, i, r.Rank(), rank)
		}
	}

	if rank == 1 {
		return tensor.Concat(rows, 0)
	}

	maxLen, minLen := int64(0), int64(0)
	for i, r := range rows {
		n, err := r.Dim(-1)
		if rank == 3 {
			n, err = r.Dim(1)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrBadShape, field, err)
		}
		if i == 0 || n > maxLen {
			maxLen = n
		}
		if i == 0 || n < minLen {
			minLen = n
		}
	}

	if rank == 2 && maxLen == minLen {
		// Uniform lengths: a straight concatenation, no padding allocated.
		return tensor.Concat(rows, 0)
	}

	if rank == 2 {
		return padRank2(rows, maxLen, padValue, side)
	}
	return padRank3(rows, maxLen, padValue, side)
}

// collectRows gathers each bundle's field tensor, splitting tensors with a
// leading dimension greater than one into individual rows.
func collectRows(bundles []Bundle, field string) ([]*tensor.Tensor, error) {
	var rows []*tensor.Tensor
	for i, b := range bundles {
		t, ok := b[field]
		if !ok {
			return nil, fmt.Errorf("%w: bundle %d has no field %q", ErrBadShape, i, field)
		}
		if t.Rank() >= 2 {
			lead, err := t.Dim(0)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q: %v", ErrBadShape, field, err)
			}
			if lead > 1 {
				for r := int64(0); r < lead; r++ {
					row, err := t.Narrow(0, r, 1)
					if err != nil {
						return nil, fmt.Errorf("%w: field %q: %v", ErrBadShape, field, err)
					}
					rows = append(rows, row)
				}
				continue
			}
		}
		rows = append(rows, t)
	}
	return rows, nil
}

func padRank2(rows []*tensor.Tensor, maxLen int64, padValue int32, side Side) (*tensor.Tensor, error) {
	data := make([]int32, int64(len(rows))*maxLen)
	for i := range data {
		data[i] = padValue
	}

	for i, r := range rows {
		n, _ := r.Dim(-1)
		base := int64(i) * maxLen
		offset := int64(0)
		if side == SideLeft {
			offset = maxLen - n
		}
		copy(data[base+offset:base+offset+n], r.RawData())
	}
	return tensor.New(data, []int64{int64(len(rows)), maxLen})
}

func padRank3(rows []*tensor.Tensor, maxLen int64, padValue int32, side Side) (*tensor.Tensor, error) {
	last, err := rows[0].Dim(-1)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		d, err := r.Dim(-1)
		if err != nil {
			return nil, err
		}
		if d != last {
			return nil, fmt.Errorf("%w: row %d trailing dim %d differs from %d", ErrBadShape, i, d, last)
		}
	}

	rowStride := maxLen * last
	data := make([]int32, int64(len(rows))*rowStride)
	for i := range data {
		data[i] = padValue
	}

	for i, r := range rows {
		n, _ := r.Dim(1)
		base := int64(i) * rowStride
		offset := int64(0)
		if side == SideLeft {
			offset = (maxLen - n) * last
		}
		copy(data[base+offset:base+offset+n*last], r.RawData())
	}
	return tensor.New(data, []int64{int64(len(rows)), maxLen, last})
}

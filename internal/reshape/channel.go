package reshape

// ChannelResolver finds the channel of an input coordinate within its
// packed texel, starting from the channel of the block's top-left input.
//
// A packed texel holds (r, c) in channel 2*(r%2) + c%2. The resolver
// keeps that relation by wrapping the row and column differences to the
// top-left separately before weighting them: a column step moves one
// channel, a row step moves two, and both wrap at the texel edge.
type ChannelResolver struct {
	// RowDim is the input dim stepping by two channels, -1 at rank 1.
	RowDim int
	// ColDim is the input dim stepping by one channel.
	ColDim int
}

// NewChannelResolver returns the resolver for an input of the given rank.
func NewChannelResolver(inputRank int) ChannelResolver {
	if inputRank == 1 {
		return ChannelResolver{RowDim: -1, ColDim: 0}
	}
	return ChannelResolver{RowDim: inputRank - 2, ColDim: inputRank - 1}
}

// BaseOffset returns the channel (0-3) of topLeft within its own texel.
func (r ChannelResolver) BaseOffset(topLeft []int) int {
	if r.RowDim < 0 {
		return imod(topLeft[r.ColDim], 2)
	}
	return 2*imod(topLeft[r.RowDim], 2) + imod(topLeft[r.ColDim], 2)
}

// Resolve returns the channel of coords given the base offset of topLeft.
func (r ChannelResolver) Resolve(base int, topLeft, coords []int) int {
	dCol := coords[r.ColDim] - topLeft[r.ColDim]
	if r.RowDim < 0 {
		return imod(base+dCol, 2)
	}
	dRow := coords[r.RowDim] - topLeft[r.RowDim]
	return 2*imod(base/2+dRow, 2) + imod(base%2+dCol, 2)
}

// imod is the floored modulo, non-negative for negative x.
func imod(x, n int) int {
	m := x % n
	if m < 0 {
		m += n
	}
	return m
}

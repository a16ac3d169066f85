// Package buffer provides Block, a multichannel sample block with reusable
// capacity. Blocks are sized once outside the audio callback; afterwards
// SetLen, Slice, Zero and the copy helpers never allocate, so they are safe
// to use on the render path.
package buffer

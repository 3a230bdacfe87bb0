// Package psac provides building blocks for parallel suffix-array
// construction over distributed text. The sequence under construction is
// block-distributed across a static group of cooperating workers that
// exchange data only through collective operations, so each algorithmic
// core is expressed against the small transport contract in psac/comm
// rather than against shared memory.
//
// Psac provides the following subpackages:
//
// psac/comm provides static worker groups and the collective primitives
// the cores consume: block distribution, broadcast, gather and
// all-gather of variable-length contributions, all-to-all exchange,
// exclusive scan, barrier, and ranked point-to-point messages.
//
// psac/ansv computes All Nearest Smaller Values: for every position of a
// distributed sequence, the index of the nearest position on each side
// holding a strictly smaller value. ANSV is the core step for parallel
// LCP-array and Cartesian-tree construction.
//
// psac/rmq provides a sparse-table range-minimum oracle with constant
// query time, used to verify ANSV outputs independently.
//
// psac/cmd/ansv is a command-line harness that runs the distributed ANSV
// over the bytes of an input file.
//
// The root package holds the block-partition arithmetic shared by the
// subpackages.
package psac

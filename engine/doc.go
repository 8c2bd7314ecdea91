// Package engine dispatches query×candidate pose optimizations over the
// parallel execution lanes of a device and assembles the per-candidate
// scores into a dense score matrix.
//
// Every (query, candidate) optimization is an independent unit of work with
// private scratch memory, so units run concurrently without locks: each lane
// owns one reusable workspace, and each unit writes its result to a disjoint
// preallocated slot keyed by candidate index. The only synchronization point
// is the final barrier before the matrix is returned.
package engine

// Package master builds the time-segmented security master: it loads raw
// identity segments and ownership links, resolves at most one link per
// segment by ranked interval overlap, and selects one canonical primary
// security per external entity key.
//
// All computation is a pure pass over fully materialized inputs; file I/O
// happens only in the loaders and the exporters.
package master

// Package domain contains the shared data structures for the security-master
// build and provider-mapping pipelines: identity segments, ownership links,
// resolved segments, provider records, matches, and crosswalk entries.
//
// These types form the contract between the loaders, the resolution engine,
// the match engine, and the CSV exporters. They carry no behavior beyond
// normalization and simple derived values; all resolution logic lives in
// internal/master and internal/match.
package domain

// Package match resolves provider records against the security master. It is
// identifier-agnostic: providers declare an ordered list of identifier
// strategies, and the engine joins, scores, and keeps one best candidate per
// (provider entity id, period). The crosswalk aggregator then collapses the
// per-period matches into one stable provider-entity mapping.
package match

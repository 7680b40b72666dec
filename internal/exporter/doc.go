// Package exporter writes the pipeline's output tables as CSV.
//
// Three components:
//
// CSVWriter: core CSV writing with headers, streaming, and an optional UTF-8
// BOM for Excel compatibility.
//
// MasterExporter: the resolved security master segments and the
// entity-to-primary-security table.
//
// MappingExporter: per-provider match, crosswalk, and unmatched tables.
//
// Any write error is returned as-is; a partially written table is never a
// valid output, so callers treat these as fatal.
package exporter

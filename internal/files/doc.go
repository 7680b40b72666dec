// Package files provides input discovery for the mapping pipeline.
//
// Provider inputs arrive as loose files in vendor-controlled layouts: a
// directory of yearly Excel workbooks, one large CSV, a JSON dump. Discovery
// finds them by pattern or extension and returns them sorted by name so a
// run processes the same files in the same order every time. Manager covers
// the small set of filesystem checks the binaries need before a stage runs.
package files

// Package exporter writes batch scoring results to downstream formats.
//
// Three surfaces share one Writer:
//
// CSV: one row per scored market with the 0-100 pillar scores, composite
// scores and display bucket, UTF-8 BOM prefixed for Excel compatibility.
//
// JSON: the full batch result (run metadata plus records) pretty-printed for
// API consumers and archival.
//
// Excel: a workbook with a Scores sheet mirroring the CSV and a Summary
// sheet of distribution statistics over the composite.
//
// Rows are always emitted in the record order produced by the batch runner
// (sorted by market id), so re-exports of the same run are byte-identical.
package exporter

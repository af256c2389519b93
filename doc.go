package keysetpager

// Package keysetpager provides keyset (cursor-based) pagination primitives.
//
// Overview
//
// keysetpager compiles a multi-column sort specification plus an optional
// reference row into two things:
//   - a total order over the dataset (per-column direction, inverted when
//     paginating backward), and
//   - a boundary condition selecting rows strictly after/before the reference
//     in that order.
//
// The boundary is a disjunction of equality-prefix + strict-tail clauses that
// emulates row-value comparison, optionally strengthened with an
// index-friendly access predicate on the leading column.
//
// Key concepts
//   - Spec/Builder: the ordered registry of sort keys (column, direction,
//     declared type, accessor).
//   - Compile: turns (spec, direction, reference) into a Context bundling the
//     ordered and boundary-filtered sequences.
//   - Sequence: the orderable, filterable dataset abstraction. GormSequence
//     executes against GORM; SliceSequence evaluates plain slices in memory.
//   - HasPrevious/HasNext: existence probes against the page edges.
//   - EnsureCorrectOrder: restores forward-reading order on backward pages.
//   - Pager: request-level orchestration with limits and page tokens.
//
// See README for examples and usage details.

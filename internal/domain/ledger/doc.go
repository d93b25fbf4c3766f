// Package ledger holds the HSA eligibility and payment reconciliation
// engine together with the records it computes over.
//
// The engine itself (Allocate, EligibilityClassifier.Classify,
// StatusOf, ProjectValue, Summarize) is a set of pure functions: no
// I/O, no shared state, fully recomputed from the snapshot it is
// handed. Persistence and transport live elsewhere and only supply
// inputs and consume the derived breakdowns.
package ledger

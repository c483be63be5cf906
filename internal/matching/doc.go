// Package matching holds the pure scoring core of reviewer selection: workload enrichment,
// relevance and quality scoring, conflict-of-interest rules and risk, and final ranking.
//
// Nothing here performs I/O. Callers load candidates, history and conflict evidence and
// pass snapshots in, which keeps a matching run deterministic and safe to execute in
// parallel across manuscripts.
package matching

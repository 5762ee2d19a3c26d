// Package dedup implements duplicate detection and pool merging for
// exam questions.
//
// Two detectors operate at different layers:
//
//   - Exact detection hashes normalized question content and catches
//     byte-identical questions regardless of capitalization, whitespace,
//     or choice ordering. It is deterministic, free, and runs on every
//     merge.
//
//   - Similarity detection asks an AI model to score candidate pairs and
//     catches rewordings of the same concept. It costs API calls, so it
//     samples large pools and is invoked explicitly by operators rather
//     than on every merge.
//
// The merge engine runs exact detection, stamps provenance metadata on
// the surviving questions, and reports what it did. Validation and
// similarity scanning are independent capabilities callers compose
// around the merge, not steps inside it.
package dedup

// Package funvec implements an atomic vector engine: a one-dimensional,
// ordered, homogeneously-typed container with a four-kind coercion
// lattice (Logical < Integer < Double < Character), per-kind missing
// sentinels, four indexing modes (positions, exclusions, boolean masks,
// names), cyclic recycling of unequal operand lengths, vectorized
// operations, and indexed assignment with growth-on-write.
//
// There is no scalar type: a scalar is a length-1 vector. Reads return
// independent copies and are safe for concurrent callers; Assign is the
// single mutating entry point and requires external single-writer
// discipline per vector.
//
// The companion package workspace persists named vectors to a local
// SQLite database.
package funvec

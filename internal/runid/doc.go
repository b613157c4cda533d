// Package runid derives the deterministic output-directory path for a run
// from its frozen hyperparameter set. Downstream tooling locates runs by
// this path convention, so derivation is pure and injective over the
// fields a naming scheme includes.
package runid

// Package filesystem provides filesystem implementations for wheelstage.
//
// This package contains implementations of the types.FS interface (the
// standard OS filesystem and an afero-backed one used for in-memory
// staging in tests), plus the copy, move and tree helpers the staging
// pipeline is built from. Every helper fails fast and reports the
// offending path in a coded error.
package filesystem

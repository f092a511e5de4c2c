// Package testutil provides helpers shared by the wheelstage package tests:
// file fixtures on any types.FS, tree snapshots for determinism checks and
// runner doubles for code that shells out.
//
// Usage guidelines:
//   - Prefer filesystem.NewMemory() for rearrangement and post-processing tests
//   - Use t.TempDir() with filesystem.NewOS() only where real permission bits
//     or real processes matter
//   - Define fixtures inline, not in external files
package testutil

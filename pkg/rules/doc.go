// Package rules maps build artifact paths to their place in the staging tree.
//
// A Table is an ordered list of (prefix, destination) pairs. Matching is by
// substring containment, not anchored prefix: the first rule whose prefix
// occurs anywhere in the artifact path wins, and only the first (leftmost)
// occurrence of that prefix is removed before the remainder is joined onto
// the rule's destination.
//
//	[[layout.headers.rules]]
//	prefix = "bazel-out/k8-opt/bin/external/local_xla/"
//	dest   = "tensorflow/compiler"
//
// turns bazel-out/k8-opt/bin/external/local_xla/foo/bar.h into
// tensorflow/compiler/foo/bar.h. Artifacts matching no rule keep their own
// relative path.
//
// Exclusions are plain substrings checked before any rule. A Layout bundles a
// category's root, rules, exclusions and skip suffixes, and resolves paths
// without touching the filesystem, so the whole mapping can be previewed and
// tested on its own.
package rules

// Package rearrange copies build artifacts into the staging directory.
//
// Each artifact category (headers, deps, srcs, aot) has a rules.Layout. An
// artifact is resolved against its layout and, unless it is skipped or
// excluded, copied whole to the resolved destination with its permission
// bits. The first failure aborts the run.
//
// Staging executes the operations of a plan.Plan, so what a dry run prints is
// what a build does. Each category's operations run through a synthfs
// pipeline in two passes: copies and package markers first, then the local
// python configuration, header mirrors and moves.
package rearrange

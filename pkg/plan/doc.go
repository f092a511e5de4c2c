// Package plan previews where every artifact would land in the staging
// directory. It resolves paths through the configured layouts only and never
// touches the filesystem, so it is safe to run before a build. The operations
// of a plan are what a build executes.
package plan

// Package types holds the value types shared across wheelstage packages:
// artifacts and their categories, and the filesystem interface every
// staging operation goes through.
package types

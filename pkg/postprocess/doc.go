// Package postprocess finishes a staged tree before it is handed to the
// packaging tool: package markers, manifest relocation, import rewriting,
// versioned library renaming and runtime search path patching.
//
// Every step fails fast and works on paths inside the staging directory.
package postprocess

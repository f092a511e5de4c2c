// Package synthfs executes staging steps through a go-synthfs pipeline.
//
// Every step is wrapped in a synthfs custom operation. The pipeline assigns
// it an ID, runs it and reports its status and duration; the step itself
// performs the file work on whatever types.FS the caller closed over, so the
// same steps run against the real disk or an in-memory filesystem.
package synthfs

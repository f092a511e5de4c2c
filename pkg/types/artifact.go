package types

import "fmt"

// Category tags an artifact with the layout table that places it
type Category string

const (
	CategoryHeaders Category = "headers"
	CategoryDeps    Category = "deps"
	CategorySrcs    Category = "srcs"
	CategoryAOT     Category = "aot"
)

// Categories lists every category in staging order
var Categories = []Category{CategoryHeaders, CategoryDeps, CategorySrcs, CategoryAOT}

// ParseCategory converts a string into a Category
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown artifact category: %q", s)
}

// Artifact is a single build output path tagged by category
type Artifact struct {
	Category Category
	Path     string
}

// Inputs holds the four ordered artifact lists handed to the rearranger
type Inputs struct {
	Headers []string
	Deps    []string
	Srcs    []string
	AOT     []string
}

// List returns the paths for one category
func (in Inputs) List(c Category) []string {
	switch c {
	case CategoryHeaders:
		return in.Headers
	case CategoryDeps:
		return in.Deps
	case CategorySrcs:
		return in.Srcs
	case CategoryAOT:
		return in.AOT
	default:
		return nil
	}
}

// Artifacts flattens the inputs into tagged artifacts in staging order
func (in Inputs) Artifacts() []Artifact {
	var out []Artifact
	for _, c := range Categories {
		for _, p := range in.List(c) {
			out = append(out, Artifact{Category: c, Path: p})
		}
	}
	return out
}

// Len returns the total number of artifacts
func (in Inputs) Len() int {
	return len(in.Headers) + len(in.Deps) + len(in.Srcs) + len(in.AOT)
}

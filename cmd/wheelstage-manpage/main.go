package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/wheelstage/cmd/wheelstage"
	"github.com/arthur-debert/wheelstage/internal/version"
)

// With a directory argument one page per command is written there;
// otherwise the root page goes to stdout.
func main() {
	rootCmd := wheelstage.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "WHEELSTAGE",
		Section: "1",
		Source:  "wheelstage " + version.Version,
		Manual:  "wheelstage manual",
	}

	var err error
	if len(os.Args) > 1 {
		err = doc.GenManTree(rootCmd, header, os.Args[1])
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/wheelstage/cmd/wheelstage"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/ui/styles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := wheelstage.Execute(ctx, os.Args[1:])
	stop()

	if err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(errors.ExitCode(err))
	}
}

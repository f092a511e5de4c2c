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
	err := wheelstage.NewServiceRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, styles.GetStyle("Error").Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(errors.ExitCode(err))
	}
}

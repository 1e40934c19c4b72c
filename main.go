// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"gopkg.axion.dev/compiler.go/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := cli.New(cli.DefaultEnv())
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrDiagnostics) {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}

// Command primes counts primes with parallel trial division and benchmarks how the
// runtime changes with the number of threads.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gostdlib/primes/cmd/primes/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

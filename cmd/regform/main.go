// Command regform serves the registration form over HTTP, runs it as a
// terminal prompt and exports its contract.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// Command chimedemo runs a small set of scheduled jobs and exposes a
// read-only HTTP inspection API over them.
package main

import (
	"fmt"
	"os"

	"github.com/boreiy/chime-go/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "chimedemo:", err)
		os.Exit(1)
	}
	if err := a.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "chimedemo:", err)
		os.Exit(1)
	}
}

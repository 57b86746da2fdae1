package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sitegen-backend/cmd"
	"sitegen-backend/internal/verifier"

	"github.com/schollz/progressbar/v3"
)

// await polls a published site URL until it responds successfully or the
// wait budget runs out. Useful for checking a Pages deployment by hand after
// a push.
func main() {
	var (
		url      string
		interval time.Duration
		budget   time.Duration
	)
	flag.StringVar(&url, "url", "", "published site URL to wait for")
	flag.DurationVar(&interval, "interval", 10*time.Second, "poll interval")
	flag.DurationVar(&budget, "budget", 120*time.Second, "total wait budget")

	cmd.LoadEnvFile()

	if url == "" {
		log.Fatal("-url is required")
	}

	v := verifier.New(interval, budget)
	attempts := int(budget / interval)

	bar := progressbar.NewOptions(attempts+1,
		progressbar.OptionSetDescription("waiting for "+url),
		progressbar.OptionShowCount(),
	)

	for i := 0; ; i++ {
		code, ready := v.Probe(context.Background(), url)
		bar.Add(1) //nolint:errcheck

		if ready {
			fmt.Printf("\nready: %s (status %d)\n", url, code)
			return
		}
		if i >= attempts {
			break
		}
		time.Sleep(interval)
	}

	fmt.Printf("\nnot ready after %s: %s\n", budget, url)
	os.Exit(1)
}

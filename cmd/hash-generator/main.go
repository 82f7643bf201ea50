// Command hash-generator prints bcrypt hashes suitable for the
// auth.principals[].password_hash configuration key.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/task-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor (4-31)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hash-generator [-cost N] password...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := writeHashes(os.Stdout, flag.Args(), *cost); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

// writeHashes writes one "password: hash" line per password.
func writeHashes(out io.Writer, passwords []string, cost int) error {
	for _, password := range passwords {
		hash, err := auth.HashPassword(password, cost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if _, err := fmt.Fprintf(out, "%s: %s\n", password, hash); err != nil {
			return err
		}
	}
	return nil
}

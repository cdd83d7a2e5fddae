// Command hash-generator prints bcrypt digests for passwords read from
// standard input, one per line. Its output can seed the first admin account,
// which the public signup endpoint cannot create.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Shreytangani17/Task-Mangement-System/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt work factor")
	flag.Parse()

	hasher, err := auth.NewBcryptHasher(*cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(2)
	}

	if err := hashLines(os.Stdin, os.Stdout, hasher); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

// hashLines writes one digest per non-blank input line.
func hashLines(r io.Reader, w io.Writer, hasher auth.Hasher) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		password := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(password) == "" {
			continue
		}
		digest, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash: %w", err)
		}
		if _, err := fmt.Fprintln(w, digest); err != nil {
			return err
		}
	}
	return scanner.Err()
}

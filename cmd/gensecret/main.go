// gensecret prints a random hex key for taskhub's SECRET_KEY setting.
// Usage: SECRET_KEY=$(go run ./cmd/gensecret)
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// 32 bytes of entropy for the HS256 signing key
const secretKeyBytesLen = 32

func main() {
	b := make([]byte, secretKeyBytesLen)

	if _, err := rand.Read(b); err != nil {
		fmt.Fprintf(os.Stderr, "gensecret: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(b))
}

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// Generates the 32-byte master key used for at-rest blob encryption when
// blobEncryption is enabled in config.json.

func main() {
	const keyFile = "master.key"
	if _, err := os.Stat(keyFile); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists. Refusing to overwrite.\n", keyFile)
		os.Exit(1)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating random key: %v\n", err)
		os.Exit(1)
	}
	hexKey := hex.EncodeToString(key)
	if err := os.WriteFile(keyFile, []byte(hexKey+"\n"), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", keyFile, err)
		os.Exit(1)
	}
	fmt.Printf("Master key written to %s\n", keyFile)
}

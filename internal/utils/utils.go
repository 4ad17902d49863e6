package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// ShowError prints a formatted error box to stderr without exiting.
// Commands that return errors to cobra use this so usage handling stays
// with the framework.
func ShowError(context string, err error) {
	fmt.Fprintf(os.Stderr, "\n---------------------------------------------------------\n")
	fmt.Fprintf(os.Stderr, "🚨 LABELGUARD ERROR: %s\n", context)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DETAILS: %v\n", err)
	}
	fmt.Fprintf(os.Stderr, "---------------------------------------------------------\n")
}

// Die is the unified exit strategy: print the error box and terminate.
func Die(context string, err error) {
	ShowError(context, err)
	os.Exit(1)
}

// GenerateSetID creates a deterministic hash for a label directory based on
// its path and modification time, so re-ingesting an unchanged directory
// maps to the same set.
func GenerateSetID(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	input := fmt.Sprintf("%s-%d", dir, info.ModTime().UnixNano())
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:]), nil
}

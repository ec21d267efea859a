package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const stdinName = "-"

// readInput reads the dump text from a file, or from stdin for "-"
func readInput(path string) (string, error) {
	if path == stdinName {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}

		return string(data), nil
	}

	if !fileExists(path) {
		return "", fmt.Errorf("%w: %s", ErrInputFileMissing, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}

// sourceName is the input name recorded in generated documents
func sourceName(path string) string {
	if path == stdinName {
		return "<stdin>"
	}

	return filepath.Base(path)
}

// ensureDir creates a directory if it doesn't exist
func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// writeOutput writes content to a file, or to stdout when path is empty
func writeOutput(path string, write func(w io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}

	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

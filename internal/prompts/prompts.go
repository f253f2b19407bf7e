// Package prompts supplies the prompt sets a benchmark run iterates over.
package prompts

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default_prompts.txt
var defaultPrompts string

// Default returns the built-in prompt set, in order and with duplicates kept.
func Default() []string {
	list, _ := Parse(strings.NewReader(defaultPrompts))
	return list
}

// Parse reads one prompt per line. Blank lines and lines starting with '#' are skipped.
func Parse(r io.Reader) ([]string, error) {
	var list []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list = append(list, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// LoadFile reads a prompt file in the Parse format.
func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prompts file: %w", err)
	}
	defer file.Close()

	list, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("read prompts file %q: %w", path, err)
	}
	return list, nil
}

// Resolve picks the prompt set for a run: explicit prompts first, then a prompt
// file, then the built-in defaults.
func Resolve(explicit []string, file string) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	if strings.TrimSpace(file) != "" {
		return LoadFile(file)
	}
	return Default(), nil
}

// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Embedded marks words that came from the built-in list.
const Embedded = "embedded"

//go:embed data/*.txt
var builtin embed.FS

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return readWords(file)
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Load returns the word list for lang. A file in dir takes precedence over
// the built-in list. The second return value is the path the words came
// from, or Embedded.
func Load(dir, lang string) ([]string, string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return nil, "", fmt.Errorf("language must not be empty")
	}
	path := filepath.Join(dir, lang+".txt")
	words, err := LoadWords(path)
	if err == nil {
		return filterWords(words, FilterForLang(lang), path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	data, berr := builtin.ReadFile("data/" + lang + ".txt")
	if berr != nil {
		return nil, "", fmt.Errorf("no word list for %q (expected %s): %w", lang, path, err)
	}
	words, err = readWords(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return filterWords(words, FilterForLang(lang), Embedded)
}

func filterWords(words []string, keep FilterFunc, from string) ([]string, string, error) {
	out := words[:0]
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return nil, "", fmt.Errorf("word list %s has no usable words", from)
	}
	return out, from, nil
}

// Langs lists the languages available in dir plus the built-in ones.
func Langs(dir string) ([]string, error) {
	seen := map[string]bool{}
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		seen[strings.TrimSuffix(entry.Name(), ".txt")] = true
	}
	builtins, err := fs.Glob(builtin, "data/*.txt")
	if err != nil {
		return nil, err
	}
	for _, name := range builtins {
		seen[strings.TrimSuffix(filepath.Base(name), ".txt")] = true
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

// Write stores words at path, one per line, replacing any existing file
// atomically.
func Write(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range words {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFallsBackToEmbedded(t *testing.T) {
	words, from, err := Load(t.TempDir(), "en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if from != Embedded {
		t.Fatalf("expected embedded list, got %s", from)
	}
	if len(words) < 100 {
		t.Fatalf("expected a usable built-in list, got %d words", len(words))
	}
	filter := FilterForLang("en")
	for _, w := range words {
		if !filter(w) {
			t.Fatalf("built-in word %q fails the english filter", w)
		}
	}
}

func TestLoadPrefersFileAndFilters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.txt")
	if err := Write(path, []string{"keep", "Drop", "also", "naïve"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, from, err := Load(dir, "EN")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if from != path {
		t.Fatalf("expected %s, got %s", path, from)
	}
	if len(words) != 2 || words[0] != "keep" || words[1] != "also" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadUnknownLanguage(t *testing.T) {
	if _, _, err := Load(t.TempDir(), "xx"); err == nil {
		t.Fatalf("expected error for missing language")
	}
}

func TestLoadWordsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "de.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestLangsMergesDirAndBuiltin(t *testing.T) {
	dir := t.TempDir()
	if err := Write(filepath.Join(dir, "de.txt"), []string{"haus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	langs, err := Langs(dir)
	if err != nil {
		t.Fatalf("langs: %v", err)
	}
	if len(langs) != 2 || langs[0] != "de" || langs[1] != "en" {
		t.Fatalf("unexpected langs: %v", langs)
	}
}

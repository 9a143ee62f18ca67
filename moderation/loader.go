package moderation

import (
	"bufio"
	"io/fs"
	"path"
	"room-relay/errors"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Dictionary is the merged content of every word list found.
type Dictionary struct {
	Words     []string
	Languages []string
}

// LoadDictionary reads every .txt file of dir, one word per line. The file
// name is the language, e.g. fr.txt. Words are deduplicated and sorted.
func LoadDictionary(fsys fs.FS, dir string) (Dictionary, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return Dictionary{}, err
	}

	var languages []string
	var words []string
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		f, err := fsys.Open(path.Join(dir, entry.Name()))
		if err != nil {
			return Dictionary{}, err
		}
		// Scanner copes with \r\n line endings
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				words = append(words, line)
			}
		}
		_ = f.Close()
		if err := scanner.Err(); err != nil {
			return Dictionary{}, err
		}
	}

	if len(words) == 0 {
		return Dictionary{}, errors.ErrEmptyWords
	}
	words = lo.Uniq(words)
	slices.Sort(words)
	return Dictionary{Words: words, Languages: languages}, nil
}

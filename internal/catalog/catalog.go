// Package catalog supplies the learning items for each dojo. Decks are TOML
// files grouping entries into named sets; the built-in decks are embedded and
// a directory of user decks can add or replace sets.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vytor/gauntlet/internal/gauntlet"
	"github.com/vytor/gauntlet/internal/logger"
	"github.com/vytor/gauntlet/internal/models"
)

//go:embed decks/*.toml
var builtinFS embed.FS

var (
	ErrUnknownSet = errors.New("catalog: unknown set")
	ErrEmptySet   = errors.New("catalog: selection has no entries")
)

// Provider resolves set selections into engine items.
type Provider interface {
	Sets(dojo models.DojoType) []SetInfo
	Items(dojo models.DojoType, sets []string) ([]gauntlet.Item, error)
	Reversible(dojo models.DojoType) bool
}

// SetInfo describes a selectable set.
type SetInfo struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
	Size  int    `json:"size"`
}

// deckFile is the on-disk TOML layout.
type deckFile struct {
	Dojo string    `toml:"dojo"`
	Sets []setFile `toml:"set"`
}

type setFile struct {
	Name    string      `toml:"name"`
	Group   string      `toml:"group"`
	Entries []entryFile `toml:"entry"`
}

type entryFile struct {
	Front    string   `toml:"front"`
	Answers  []string `toml:"answers"`
	Reading  string   `toml:"reading"`
	Readings []string `toml:"readings"`
}

// Catalog holds the loaded decks. It is read-only after Load.
type Catalog struct {
	sets  map[models.DojoType][]setFile
	index map[models.DojoType]map[string]int
}

// Load reads the built-in decks, then every *.toml file in dir when dir is
// not empty. A user set with the same name as a built-in one replaces it.
func Load(dir string) (*Catalog, error) {
	log := logger.Default().WithPrefix("catalog")
	c := &Catalog{
		sets:  make(map[models.DojoType][]setFile),
		index: make(map[models.DojoType]map[string]int),
	}

	if err := c.loadFS(builtinFS, "decks"); err != nil {
		return nil, fmt.Errorf("load built-in decks: %w", err)
	}
	if dir != "" {
		log.Info("loading decks from %s", dir)
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("load decks: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("load decks: %s is not a directory", dir)
		}
		if err := c.loadFS(os.DirFS(dir), "."); err != nil {
			return nil, fmt.Errorf("load decks from %s: %w", dir, err)
		}
	}
	for _, dojo := range models.DojoTypes {
		log.Debug("dojo %s: %d sets", dojo, len(c.sets[dojo]))
	}
	return c, nil
}

// MustLoadBuiltin returns the embedded catalog and panics if it is malformed.
func MustLoadBuiltin() *Catalog {
	c, err := Load("")
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) loadFS(fsys fs.FS, root string) error {
	matches, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(root, "*.toml")))
	if err != nil {
		return err
	}
	sort.Strings(matches)
	for _, name := range matches {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		var deck deckFile
		if _, err := toml.Decode(string(raw), &deck); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		if err := c.add(deck); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) add(deck deckFile) error {
	dojo, err := models.ParseDojoType(deck.Dojo)
	if err != nil {
		return err
	}
	if c.index[dojo] == nil {
		c.index[dojo] = make(map[string]int)
	}
	for _, set := range deck.Sets {
		if set.Name == "" {
			return errors.New("set without a name")
		}
		for i, e := range set.Entries {
			if strings.TrimSpace(e.Front) == "" || len(e.Answers) == 0 {
				return fmt.Errorf("set %s entry %d needs a front and at least one answer", set.Name, i)
			}
		}
		if i, ok := c.index[dojo][set.Name]; ok {
			c.sets[dojo][i] = set
			continue
		}
		c.index[dojo][set.Name] = len(c.sets[dojo])
		c.sets[dojo] = append(c.sets[dojo], set)
	}
	return nil
}

// Sets lists the selectable sets of a dojo in deck order.
func (c *Catalog) Sets(dojo models.DojoType) []SetInfo {
	out := make([]SetInfo, 0, len(c.sets[dojo]))
	for _, s := range c.sets[dojo] {
		out = append(out, SetInfo{Name: s.Name, Group: s.Group, Size: len(s.Entries)})
	}
	return out
}

// Reversible reports whether questions of the dojo may swap direction.
func (c *Catalog) Reversible(dojo models.DojoType) bool {
	return dojo == models.DojoKana
}

// Items returns the deduplicated entries of the named sets. A selection
// naming a set group (e.g. "hiragana") expands to every set in it; an empty
// selection means every set of the dojo.
func (c *Catalog) Items(dojo models.DojoType, names []string) ([]gauntlet.Item, error) {
	selected, err := c.resolve(dojo, names)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var kana []KanaItem
	var items []gauntlet.Item
	for _, set := range selected {
		for _, e := range set.Entries {
			if _, dup := seen[e.Front]; dup {
				continue
			}
			seen[e.Front] = struct{}{}
			switch dojo {
			case models.DojoKana:
				kana = append(kana, KanaItem{Char: e.Front, Romaji: e.Answers, Group: set.Group})
			case models.DojoKanji:
				items = append(items, KanjiItem{Char: e.Front, Meanings: e.Answers, Readings: e.Readings})
			case models.DojoVocabulary:
				items = append(items, VocabularyItem{Word: e.Front, Reading: e.Reading, Meanings: e.Answers})
			}
		}
	}
	if dojo == models.DojoKana {
		linkHomophones(kana)
		for _, k := range kana {
			items = append(items, k)
		}
	}
	if len(items) == 0 {
		return nil, ErrEmptySet
	}
	return items, nil
}

func (c *Catalog) resolve(dojo models.DojoType, names []string) ([]setFile, error) {
	all := c.sets[dojo]
	if len(names) == 0 {
		return all, nil
	}

	picked := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if _, ok := c.index[dojo][name]; ok {
			picked[name] = true
			continue
		}
		matched := false
		for _, s := range all {
			if s.Group != "" && s.Group == name {
				picked[s.Name] = true
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownSet, dojo, name)
		}
	}

	var out []setFile
	for _, s := range all {
		if picked[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}

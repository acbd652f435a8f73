package catalog

import "strings"

// KanaItem is a single kana character answered with its romaji. Reversed
// questions show the romaji and expect the character.
type KanaItem struct {
	Char   string
	Romaji []string
	Group  string

	// homophones are other selected characters sharing the canonical romaji,
	// such as か and カ. They are accepted for reversed questions.
	homophones []string
}

func (k KanaItem) ID() string { return k.Char }

func (k KanaItem) Prompt(reversed bool) string {
	if reversed {
		return k.Romaji[0]
	}
	return k.Char
}

func (k KanaItem) AcceptedAnswers(reversed bool) []string {
	if reversed {
		return append([]string{k.Char}, k.homophones...)
	}
	return k.Romaji
}

// KanjiItem is answered with any of its English meanings.
type KanjiItem struct {
	Char     string
	Meanings []string
	Readings []string
}

func (k KanjiItem) ID() string { return k.Char }

func (k KanjiItem) Prompt(bool) string { return k.Char }

func (k KanjiItem) AcceptedAnswers(bool) []string { return k.Meanings }

// VocabularyItem is a word answered with any of its English meanings.
type VocabularyItem struct {
	Word     string
	Reading  string
	Meanings []string
}

func (v VocabularyItem) ID() string { return v.Word }

func (v VocabularyItem) Prompt(bool) string { return v.Word }

func (v VocabularyItem) AcceptedAnswers(bool) []string { return v.Meanings }

// linkHomophones fills in homophones for every kana in items.
func linkHomophones(items []KanaItem) {
	byRomaji := make(map[string][]int)
	for i, k := range items {
		key := strings.ToLower(k.Romaji[0])
		byRomaji[key] = append(byRomaji[key], i)
	}
	for _, idx := range byRomaji {
		if len(idx) < 2 {
			continue
		}
		for _, i := range idx {
			items[i].homophones = nil
			for _, j := range idx {
				if i != j {
					items[i].homophones = append(items[i].homophones, items[j].Char)
				}
			}
		}
	}
}

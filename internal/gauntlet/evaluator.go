package gauntlet

import (
	"math/rand"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Evaluator checks answers and builds multiple-choice options.
type Evaluator struct {
	rnd *rand.Rand
}

func NewEvaluator(rnd *rand.Rand) *Evaluator {
	return &Evaluator{rnd: rnd}
}

// normalize trims, folds full-width forms (NFKC) and folds case so that IME
// input like "ＫＡ" matches "ka".
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = norm.NFKC.String(s)
	return cases.Fold().String(s)
}

// Check reports whether input matches any accepted answer of the slot.
func (e *Evaluator) Check(slot Slot, input string) bool {
	got := normalize(input)
	if got == "" {
		return false
	}
	for _, a := range slot.Answers() {
		if normalize(a) == got {
			return true
		}
	}
	return false
}

// CorrectOption is the canonical answer shown among Pick options.
func CorrectOption(slot Slot) string {
	answers := slot.Answers()
	if len(answers) == 0 {
		return ""
	}
	return answers[0]
}

// Options returns up to count strings: the correct answer first, followed by
// distinct distractors taken from other items in pool. Pools with too few
// distinct answers yield fewer options.
func (e *Evaluator) Options(slot Slot, pool []Item, count int) []string {
	correct := CorrectOption(slot)
	if count < 1 || correct == "" {
		return nil
	}

	seen := make(map[string]struct{})
	for _, a := range slot.Answers() {
		seen[normalize(a)] = struct{}{}
	}

	var distractors []string
	for _, item := range pool {
		if item.ID() == slot.Item.ID() {
			continue
		}
		answers := item.AcceptedAnswers(slot.Reversed)
		if len(answers) == 0 {
			continue
		}
		key := normalize(answers[0])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		distractors = append(distractors, answers[0])
	}

	e.rnd.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	if len(distractors) > count-1 {
		distractors = distractors[:count-1]
	}
	return append([]string{correct}, distractors...)
}

// Shuffle randomizes option order in place for display.
func (e *Evaluator) Shuffle(options []string) {
	e.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
}

// SameAnswer compares two answers the way Check does.
func SameAnswer(a, b string) bool {
	return normalize(a) == normalize(b)
}

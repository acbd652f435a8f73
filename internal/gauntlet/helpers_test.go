package gauntlet_test

import (
	"fmt"
	"math/rand"

	"github.com/vytor/gauntlet/internal/gauntlet"
	"github.com/vytor/gauntlet/internal/random"
)

type testItem struct {
	id      string
	answers []string
	back    []string
}

func (i testItem) ID() string { return i.id }

func (i testItem) Prompt(reversed bool) string {
	if reversed {
		return i.answers[0]
	}
	return i.id
}

func (i testItem) AcceptedAnswers(reversed bool) []string {
	if reversed {
		if len(i.back) > 0 {
			return i.back
		}
		return []string{i.id}
	}
	return i.answers
}

func makeItems(n int) []gauntlet.Item {
	items := make([]gauntlet.Item, n)
	for i := 0; i < n; i++ {
		items[i] = testItem{id: fmt.Sprintf("item-%d", i), answers: []string{fmt.Sprintf("answer-%d", i)}}
	}
	return items
}

func seeded() *rand.Rand {
	return random.NewSeeded(42)
}

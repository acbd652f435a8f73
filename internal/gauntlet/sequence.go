package gauntlet

import "math/rand"

// Item is a learning item the engine can quiz on. Reversed questions show the
// answer side and expect the prompt side; domains without a direction ignore
// the flag.
type Item interface {
	ID() string
	Prompt(reversed bool) string
	AcceptedAnswers(reversed bool) []string
}

// Slot is one scheduled question of a run.
type Slot struct {
	Item     Item
	Reversed bool
}

// Prompt returns the text shown for the slot.
func (s Slot) Prompt() string {
	return s.Item.Prompt(s.Reversed)
}

// Answers returns the accepted answers for the slot's direction.
func (s Slot) Answers() []string {
	return s.Item.AcceptedAnswers(s.Reversed)
}

// Sequencer expands an item pool into a shuffled slot sequence.
type Sequencer struct {
	rnd        *rand.Rand
	reversible bool
}

// NewSequencer returns a Sequencer drawing from rnd. When reversible is set
// each slot independently gets a random direction.
func NewSequencer(rnd *rand.Rand, reversible bool) *Sequencer {
	return &Sequencer{rnd: rnd, reversible: reversible}
}

// Build returns len(items)*repetitions slots in uniformly random order.
// Every call shuffles afresh.
func (s *Sequencer) Build(items []Item, repetitions int) []Slot {
	if len(items) == 0 || repetitions < 1 {
		return nil
	}
	slots := make([]Slot, 0, len(items)*repetitions)
	for r := 0; r < repetitions; r++ {
		for _, item := range items {
			slots = append(slots, Slot{Item: item})
		}
	}
	// rand.Shuffle is Fisher-Yates.
	s.rnd.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})
	if s.reversible {
		for i := range slots {
			slots[i].Reversed = s.rnd.Intn(2) == 1
		}
	}
	return slots
}

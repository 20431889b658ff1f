package deck

import (
	"errors"
	"math/rand"
)

// ErrDeckExhausted is returned by Draw when there isn't enough remaining
// probability mass to satisfy the request.
var ErrDeckExhausted = errors.New("deck: insufficient cards remaining")

// Deck is a probability distribution over the 52 card ids plus the implicit
// drawable set (entries with nonzero probability). Nonzero entries are
// always uniform; RemoveCards and Draw are the only mutators and both
// preserve that invariant.
type Deck struct {
	distribution [NumCards]float64
}

// NewDeck returns a deck with uniform probability over all 52 cards.
func NewDeck() *Deck {
	d := &Deck{}
	p := 1.0 / float64(NumCards)
	for i := range d.distribution {
		d.distribution[i] = p
	}
	return d
}

// RemoveCards zeroes the given cards' probability and renormalises the
// remaining nonzero entries back to uniform mass summing to 1.
func (d *Deck) RemoveCards(cards []Card) {
	for _, c := range cards {
		if c.Valid() {
			d.distribution[c] = 0
		}
	}
	d.renormalise()
}

func (d *Deck) renormalise() {
	sum := 0.0
	for _, p := range d.distribution {
		sum += p
	}
	if sum <= 0 {
		return
	}
	for i, p := range d.distribution {
		if p > 0 {
			d.distribution[i] = p / sum
		}
	}
}

// Remaining returns the cards with nonzero probability, in id order.
func (d *Deck) Remaining() []Card {
	out := make([]Card, 0, NumCards)
	for i, p := range d.distribution {
		if p > 0 {
			out = append(out, Card(i))
		}
	}
	return out
}

// Probability returns the current draw probability for a card.
func (d *Deck) Probability(c Card) float64 {
	if !c.Valid() {
		return 0
	}
	return d.distribution[c]
}

// Draw samples n distinct cards without replacement according to the
// current distribution, zeroing each as it is drawn and renormalising
// between draws. Returns ErrDeckExhausted if fewer than n cards remain.
func (d *Deck) Draw(rng *rand.Rand, n int) ([]Card, error) {
	if n > len(d.Remaining()) {
		return nil, ErrDeckExhausted
	}
	drawn := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, err := d.drawOne(rng)
		if err != nil {
			return nil, err
		}
		drawn = append(drawn, c)
	}
	return drawn, nil
}

func (d *Deck) drawOne(rng *rand.Rand) (Card, error) {
	sum := 0.0
	for _, p := range d.distribution {
		sum += p
	}
	if sum <= 0 {
		return -1, ErrDeckExhausted
	}
	target := rng.Float64() * sum
	acc := 0.0
	for i, p := range d.distribution {
		if p <= 0 {
			continue
		}
		acc += p
		if target <= acc {
			d.distribution[i] = 0
			d.renormalise()
			return Card(i), nil
		}
	}
	// Floating point rounding: fall back to the last nonzero entry.
	for i := NumCards - 1; i >= 0; i-- {
		if d.distribution[i] > 0 {
			d.distribution[i] = 0
			d.renormalise()
			return Card(i), nil
		}
	}
	return -1, ErrDeckExhausted
}

// Copy deep-copies the distribution so a resolve call can fork a deck
// without affecting the caller's.
func (d *Deck) Copy() *Deck {
	cp := &Deck{}
	cp.distribution = d.distribution
	return cp
}

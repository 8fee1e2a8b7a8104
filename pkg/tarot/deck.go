package tarot

import "math/rand/v2"

// Card suits. Major arcana carry no suit image deck of their own.
const (
	SuitMajor     = "major"
	SuitCups      = "cups"
	SuitWands     = "wands"
	SuitSwords    = "swords"
	SuitPentacles = "pentacles"
)

type Card struct {
	Name    string
	Meaning string
	Suit    string
	Image   string // base filename under the images dir, empty if none
}

// deck is never mutated; Pick samples it without shuffling.
var deck = []Card{
	{Name: "The Fool", Meaning: "New beginnings, spontaneity, adventure.", Suit: SuitMajor},
	{Name: "The Magician", Meaning: "Power, skill, concentration.", Suit: SuitMajor},
	{Name: "The High Priestess", Meaning: "Intuition, mystery, wisdom.", Suit: SuitMajor},
	{Name: "The Empress", Meaning: "Fertility, nature, abundance.", Suit: SuitMajor},
	{Name: "The Emperor", Meaning: "Authority, stability, structure.", Suit: SuitMajor},
	{Name: "The Lovers", Meaning: "Love, relationships, choices.", Suit: SuitMajor},
	{Name: "The Chariot", Meaning: "Willpower, victory, determination.", Suit: SuitMajor},
	{Name: "Death", Meaning: "Endings, transformation, new beginnings.", Suit: SuitMajor},
	{Name: "The Tower", Meaning: "Sudden change, chaos, revelation.", Suit: SuitMajor},
	{Name: "The Star", Meaning: "Hope, inspiration, renewal.", Suit: SuitMajor},
	{Name: "Ace of Cups", Meaning: "Overflowing emotion, new love, compassion.", Suit: SuitCups, Image: "ace-of-cups-1.jpg"},
	{Name: "Two of Wands", Meaning: "Planning, foresight, bold decisions.", Suit: SuitWands, Image: "two-of-wands-1.jpg"},
	{Name: "Three of Pentacles", Meaning: "Teamwork, craftsmanship, recognition.", Suit: SuitPentacles, Image: "three-of-pentacles-1.jpg"},
	{Name: "Four of Swords", Meaning: "Rest, recovery, quiet contemplation.", Suit: SuitSwords, Image: "four-of-swords-1.jpg"},
	{Name: "Five of Cups", Meaning: "Loss, regret, learning to let go.", Suit: SuitCups, Image: "five-of-cups-1.jpg"},
	{Name: "Six of Pentacles", Meaning: "Generosity, charity, balance of giving.", Suit: SuitPentacles, Image: "six-of-pentacles-1.jpg"},
	{Name: "Seven of Wands", Meaning: "Defiance, perseverance, standing your ground.", Suit: SuitWands, Image: "seven-of-wands-1.jpg"},
	{Name: "Eight of Swords", Meaning: "Restriction, self-imposed limits, doubt.", Suit: SuitSwords, Image: "eight-of-swords-1.jpg"},
	{Name: "Nine of Pentacles", Meaning: "Independence, luxury, well-earned comfort.", Suit: SuitPentacles, Image: "nine-of-pentacles-1.jpg"},
	{Name: "Ten of Wands", Meaning: "Burden, responsibility, carrying too much.", Suit: SuitWands, Image: "ten-of-wands-1.jpg"},
}

// Pick returns a uniformly random card from the deck.
// Consecutive calls may repeat; no history is kept.
func Pick() Card {
	return deck[rand.IntN(len(deck))]
}

// Deck returns a copy of the full card list.
func Deck() []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	return out
}

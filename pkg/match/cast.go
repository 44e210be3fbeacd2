package match

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// ErrCatalogTooSmall is returned when more personas are requested than exist.
var ErrCatalogTooSmall = errors.New("persona catalog too small")

// Persona is a predefined character an AI seat can play.
type Persona struct {
	Name    string `json:"name"`
	Persona string `json:"persona"`
}

// DefaultCatalog is the built-in cast of AI characters.
var DefaultCatalog = []Persona{
	{Name: "Sir Arthur", Persona: "Brave and upright with a strong protective streak; sometimes rash and too quick to trust others."},
	{Name: "Scholar Elena", Persona: "Clever and perceptive, good at analysis but timid; speaks carefully and quotes from books."},
	{Name: "Marco the Merchant", Persona: "Shrewd and opportunistic, weighs everything by profit; talks like he is closing a deal and is good at swaying a crowd."},
	{Name: "Father Cyrus", Persona: "Devout and calm, speaks in parables and tries to soothe everyone, though his neutrality can look suspicious."},
	{Name: "Finn the Ranger", Persona: "A loner of few words who notices everything and only speaks up, briefly, when it matters."},
	{Name: "Lyra the Bard", Persona: "Cheerful and romantic, explains things through songs and stories to ease tension, but can seem unserious."},
	{Name: "Barton the Smith", Persona: "Stubborn and blunt with a booming voice; believes what he sees and has no patience for convoluted logic."},
	{Name: "Ella the Herbalist", Persona: "Gentle and kind, worries about everyone, easily unsettled and often hesitant when she speaks."},
	{Name: "Gino the Thief", Persona: "Sly and quick-witted with shifty eyes; an expert at changing the subject and muddying the waters."},
	{Name: "Duchess Cassandra", Persona: "Proud and commanding, tries to steer every discussion and rarely admits a mistake."},
	{Name: "Old Hank", Persona: "A suspicious veteran who trusts no one and keeps reminding everyone how harsh reality is."},
	{Name: "Timmy the Farmer", Persona: "Simple and honest, says little, follows plain logic and is easily persuaded by others."},
}

// GenerateCast picks k distinct personas from the catalog.
// The catalog itself is left untouched.
func GenerateCast(k int, catalog []Persona, rng *rand.Rand) ([]Persona, error) {
	if k < 0 {
		return nil, fmt.Errorf("cast size must not be negative, got %d", k)
	}
	if k > len(catalog) {
		return nil, fmt.Errorf("%w: need %d personas, have %d", ErrCatalogTooSmall, k, len(catalog))
	}

	shuffled := slices.Clone(catalog)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:k], nil
}

// ValidateCatalog reports duplicate or empty persona names.
func ValidateCatalog(catalog []Persona) error {
	seen := make(map[string]struct{}, len(catalog))
	for i, p := range catalog {
		if p.Name == "" {
			return fmt.Errorf("persona %d has an empty name", i)
		}
		if strings.EqualFold(p.Name, SenderGM) {
			return fmt.Errorf("persona name %q is reserved", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate persona name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

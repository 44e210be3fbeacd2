package rules

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

type lastSource struct{}

func (lastSource) Uint64() uint64 { return math.MaxUint64 }

func ballots(targets ...string) []Ballot {
	out := make([]Ballot, len(targets))
	for i, t := range targets {
		out[i] = Ballot{Voter: "v", Target: t}
	}
	return out
}

func TestTally_TieGoesToFirstInOrder(t *testing.T) {
	order := []string{"A", "B", "C"}
	in := ballots("B", "A", "C", "B", "A")

	for range 100 {
		result := Tally(in, order)
		assert.Equal(t, "A", result.Eliminated)
		assert.Equal(t, []string{"A", "B"}, result.Tied)
		assert.Equal(t, map[string]int{"A": 2, "B": 2, "C": 1}, result.Counts)
	}
}

func TestTally(t *testing.T) {
	tests := []struct {
		name       string
		ballots    []Ballot
		order      []string
		eliminated string
		tied       []string
	}{
		{name: "clear majority", ballots: ballots("C", "C", "A"), order: []string{"A", "B", "C"}, eliminated: "C"},
		{name: "tie respects order", ballots: ballots("C", "B"), order: []string{"C", "B"}, eliminated: "C", tied: []string{"C", "B"}},
		{name: "no ballots", ballots: nil, order: []string{"A", "B"}, eliminated: ""},
		{name: "no candidates", ballots: ballots("A"), order: nil, eliminated: ""},
		{name: "targets outside order ignored", ballots: ballots("Ghost", "Ghost", "B"), order: []string{"A", "B"}, eliminated: "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Tally(tt.ballots, tt.order)
			assert.Equal(t, tt.eliminated, result.Eliminated)
			assert.Equal(t, tt.tied, result.Tied)
			assert.Len(t, result.Counts, len(tt.order))
		})
	}
}

func testSeats() []match.Seat {
	return []match.Seat{
		{Name: "Ada", IsHuman: true, Role: match.RoleVillager, Status: match.StatusAlive},
		{Name: "Bo", Role: match.RoleWerewolf, Status: match.StatusAlive},
		{Name: "Cy", Role: match.RoleVillager, Status: match.StatusDead},
		{Name: "Di", Role: match.RoleVillager, Status: match.StatusAlive},
		{Name: "Ed", Role: match.RoleSeer, Status: match.StatusAlive},
	}
}

func TestCastBallots(t *testing.T) {
	seats := testSeats()

	for seed := uint64(0); seed < 100; seed++ {
		got := CastBallots(seats, "Bo", rand.New(rand.NewPCG(seed, 5)))
		require.Len(t, got, 4, "one ballot per living seat")

		assert.Equal(t, Ballot{Voter: "Ada", Target: "Bo"}, got[0])
		for _, b := range got[1:] {
			assert.NotEqual(t, b.Voter, b.Target, "no self votes")
			assert.NotEqual(t, "Cy", b.Target, "dead seats get no votes")
			assert.NotEqual(t, "Cy", b.Voter, "dead seats do not vote")
		}
	}
}

func TestCastBallots_Scripted(t *testing.T) {
	got := CastBallots(testSeats(), "Di", rand.New(lastSource{}))
	assert.Equal(t, []Ballot{
		{Voter: "Ada", Target: "Di"},
		{Voter: "Bo", Target: "Ed"},
		{Voter: "Di", Target: "Ed"},
		{Voter: "Ed", Target: "Di"},
	}, got)

	result := Tally(got, []string{"Ada", "Bo", "Di", "Ed"})
	assert.Equal(t, "Di", result.Eliminated)
}

func TestCastBallots_HumanDead(t *testing.T) {
	seats := testSeats()
	seats[0].Status = match.StatusDead

	got := CastBallots(seats, "Bo", rand.New(rand.NewPCG(1, 1)))
	assert.Len(t, got, 3)
	for _, b := range got {
		assert.NotEqual(t, "Ada", b.Voter)
	}
}

func TestCastBallots_LoneSurvivor(t *testing.T) {
	seats := []match.Seat{
		{Name: "Ada", IsHuman: true, Status: match.StatusDead},
		{Name: "Bo", Status: match.StatusAlive},
	}
	assert.Empty(t, CastBallots(seats, "Bo", rand.New(rand.NewPCG(1, 1))))
}

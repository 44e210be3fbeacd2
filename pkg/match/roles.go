package match

import "math/rand/v2"

// StandardSeatCount is the table size the full role distribution is built for.
const StandardSeatCount = 12

// AssignRoles returns a shuffled role list of length n.
//
// A standard table gets three werewolves, one seer, one witch and villagers
// for every remaining seat. Any other size falls back to a single werewolf
// among villagers.
func AssignRoles(n int, rng *rand.Rand) []Role {
	if n <= 0 {
		return []Role{}
	}

	roles := make([]Role, 0, n)
	if n == StandardSeatCount {
		roles = append(roles, RoleWerewolf, RoleWerewolf, RoleWerewolf, RoleSeer, RoleWitch)
	} else {
		roles = append(roles, RoleWerewolf)
	}
	for len(roles) < n {
		roles = append(roles, RoleVillager)
	}

	// Fisher-Yates
	for i := len(roles) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		roles[i], roles[j] = roles[j], roles[i]
	}
	return roles
}

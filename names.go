package threadpool

import (
	"fmt"
	"math/rand/v2"
)

var (
	left = [...]string{
		"admiring", "brave", "busy", "clever", "eager", "elastic", "focused",
		"gallant", "happy", "jolly", "keen", "lucid", "nimble", "quirky",
		"serene", "steady", "tender", "vigilant", "wizardly", "zealous",
	}

	right = [...]string{
		"babbage", "bohr", "curie", "dijkstra", "euler", "fermi", "gauss",
		"hopper", "kepler", "knuth", "lamport", "lovelace", "noether",
		"pike", "ritchie", "shannon", "thompson", "torvalds", "turing", "wirth",
	}
)

// getRandomName returns a name like "nimble_lamport".
// A retry > 0 appends a random digit so callers can reduce collisions.
func getRandomName(retry int) string {
	name := fmt.Sprintf("%s_%s", left[rand.IntN(len(left))], right[rand.IntN(len(right))])
	if retry > 0 {
		name = fmt.Sprintf("%s%d", name, rand.IntN(10))
	}
	return name
}

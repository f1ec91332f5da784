//go:build !race

package procure

func passwordHashCost() int {
	return 12
}

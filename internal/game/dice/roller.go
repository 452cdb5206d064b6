package dice

// Throw rolls every die in dice once using src and returns the values showing
// afterwards, in position order.
//
// Precondition: src must be non-nil; dice must not contain nil entries.
// Postcondition: len(result) == len(dice); every value is in [1, Faces].
func Throw(dice []*Die, src Source) []int {
	values := make([]int, len(dice))
	for i, d := range dice {
		d.Roll(src)
		values[i] = d.Value()
	}
	return values
}

// Values returns the face values of dice in position order.
func Values(dice []*Die) []int {
	values := make([]int, len(dice))
	for i, d := range dice {
		values[i] = d.Value()
	}
	return values
}

package engine

// Evaluate scores a position from player two's point of view. Player two is
// rewarded for high x, player one for low y.
func Evaluate(b *Board) int {
	score := 0
	for x := 0; x < b.n; x++ {
		for y := 0; y < b.n; y++ {
			switch b.cells[x][y] {
			case PlayerTwo:
				score += x * 10
			case PlayerOne:
				score -= (b.n - y) * 10
			}
		}
	}
	return score
}

package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrMalformedSnapshot = errors.New("malformed game snapshot")

// WriteSnapshot writes the save format: "<n> <player>" followed by one line
// per x, each cell followed by a space.
func WriteSnapshot(w io.Writer, b *Board, currentPlayer Cell) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", b.n, currentPlayer)
	for x := 0; x < b.n; x++ {
		for y := 0; y < b.n; y++ {
			bw.WriteString(strconv.Itoa(int(b.cells[x][y])))
			bw.WriteByte(' ')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadSnapshot parses what WriteSnapshot produces. Trailing whitespace on any
// line is ignored.
func ReadSnapshot(r io.Reader) (*Board, Cell, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, Empty, err
		}
		return nil, Empty, fmt.Errorf("%w: missing header", ErrMalformedSnapshot)
	}
	header := strings.Fields(sc.Text())
	if len(header) != 2 {
		return nil, Empty, fmt.Errorf("%w: header %q", ErrMalformedSnapshot, sc.Text())
	}
	n, err := strconv.Atoi(header[0])
	if err != nil || n < 2 || n > MaxSize {
		return nil, Empty, fmt.Errorf("%w: size %q", ErrMalformedSnapshot, header[0])
	}
	p, err := strconv.Atoi(header[1])
	if err != nil || (Cell(p) != PlayerOne && Cell(p) != PlayerTwo) {
		return nil, Empty, fmt.Errorf("%w: player %q", ErrMalformedSnapshot, header[1])
	}

	b := EmptyBoard(n)
	for x := 0; x < n; x++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, Empty, err
			}
			return nil, Empty, fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedSnapshot, n, x)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != n {
			return nil, Empty, fmt.Errorf("%w: row %d has %d cells", ErrMalformedSnapshot, x, len(fields))
		}
		for y, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil || !Cell(v).valid() {
				return nil, Empty, fmt.Errorf("%w: cell (%d,%d) = %q", ErrMalformedSnapshot, x, y, f)
			}
			b.cells[x][y] = Cell(v)
		}
	}
	return b, Cell(p), nil
}

// Save writes the game in the save format.
func (g *Game) Save(w io.Writer) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return WriteSnapshot(w, g.board, g.currentPlayer)
}

func (g *Game) SaveFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := g.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadGame restores a game written by Save; bot plays player two.
func LoadGame(r io.Reader, bot Strategy) (*Game, error) {
	b, p, err := ReadSnapshot(r)
	if err != nil {
		return nil, err
	}
	return &Game{
		size:          b.n,
		currentPlayer: p,
		board:         b,
		bot:           bot,
	}, nil
}

func LoadGameFile(name string, bot Strategy) (*Game, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadGame(f, bot)
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"migration/internal/engine"
)

func newPlayCmd(opts *options) *cobra.Command {
	var (
		size     int
		loadPath string
		savePath string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal as player one",
		Long: `Play in the terminal as player one (X). Your pieces step toward y = 0,
the bot's pieces (O) step toward x = n-1. Enter the x and y of the piece to
move, "save <file>" to save, or "quit".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			depth, err := opts.depth()
			if err != nil {
				return err
			}

			var g *engine.Game
			if loadPath != "" {
				g, err = engine.LoadGameFile(loadPath, engine.NewMinimaxPlayer(depth))
			} else {
				g, err = engine.NewGame(size, depth)
			}
			if err != nil {
				return err
			}

			s := &playSession{
				game: g,
				in:   bufio.NewScanner(cmd.InOrStdin()),
				out:  cmd.OutOrStdout(),
				log:  opts.logger(),
			}
			if err := s.run(); err != nil {
				return err
			}
			if savePath != "" {
				return s.save(savePath)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&size, "size", "n", 8, "board size")
	cmd.Flags().StringVar(&loadPath, "load", "", "resume from a save file")
	cmd.Flags().StringVar(&savePath, "save", "", "save the final position to this file")
	return cmd
}

type playSession struct {
	game *engine.Game
	in   *bufio.Scanner
	out  io.Writer
	log  *zap.SugaredLogger
}

func (s *playSession) run() error {
	for {
		s.printBoard()

		if s.game.IsGameOver() {
			fmt.Fprintf(s.out, "Game over, player %d wins\n", s.game.Winner())
			return nil
		}

		if s.game.CurrentPlayer() == engine.PlayerTwo {
			m := s.game.RunBot()
			s.log.Debugf("bot %s played %s", s.game.Strategy().Name(), m)
			fmt.Fprintf(s.out, "Bot moves %d %d -> %d %d\n", m.X1, m.Y1, m.X2, m.Y2)
			continue
		}

		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		quit, err := s.handle(strings.Fields(s.in.Text()))
		if err != nil {
			fmt.Fprintln(s.out, err)
		}
		if quit {
			return nil
		}
	}
}

// handle runs one line of input. It reports whether the player asked to quit.
func (s *playSession) handle(fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "save":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: save <file>")
		}
		return false, s.save(fields[1])
	}

	if len(fields) != 2 {
		return false, fmt.Errorf("enter the x and y of one of your pieces")
	}
	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	if errX != nil || errY != nil {
		return false, fmt.Errorf("coordinates must be integers")
	}
	if s.game.Cell(x, y) != engine.PlayerOne {
		return false, fmt.Errorf("no piece of yours at %d %d", x, y)
	}

	before := s.game.CurrentPlayer()
	s.game.ApplyMove(x, y, x, y-1)
	if s.game.CurrentPlayer() == before {
		return false, fmt.Errorf("piece at %d %d cannot move", x, y)
	}
	return false, nil
}

func (s *playSession) save(path string) error {
	if err := s.game.SaveFile(path); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved to %s\n", path)
	return nil
}

func (s *playSession) printBoard() {
	n := s.game.Size()
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < n; x++ {
		fmt.Fprintf(&sb, "%2d", x)
	}
	sb.WriteByte('\n')
	for y := 0; y < n; y++ {
		fmt.Fprintf(&sb, "%2d ", y)
		for x := 0; x < n; x++ {
			sb.WriteByte(' ')
			switch s.game.Cell(x, y) {
			case engine.PlayerOne:
				sb.WriteByte('X')
			case engine.PlayerTwo:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(s.out, sb.String())
}

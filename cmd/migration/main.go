package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"migration/internal/bootstrap"
	"migration/internal/engine"
)

type options struct {
	difficulty string
	presets    string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "migration",
		Short:         "Play Migration against the minimax bot",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.difficulty, "difficulty", "d", "medium", "preset name or search depth")
	root.PersistentFlags().StringVar(&opts.presets, "presets", "", "yaml file with extra difficulty presets")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log bot decisions to stderr")

	root.AddCommand(newPlayCmd(opts), newBotCmd(opts))
	return root
}

func (o *options) depth() (int, error) {
	presets, err := bootstrap.LoadDifficultyPresets(o.presets)
	if err != nil {
		return 0, err
	}
	return bootstrap.ResolveDifficulty(presets, o.difficulty)
}

func (o *options) logger() *zap.SugaredLogger {
	if !o.verbose {
		return zap.NewNop().Sugar()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func newBotCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bot <savefile>",
		Short: "Print the bot's move for a saved position as x1 y1 x2 y2",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			depth, err := opts.depth()
			if err != nil {
				return err
			}
			player := engine.NewMinimaxPlayer(depth)
			g, err := engine.LoadGameFile(args[0], player)
			if err != nil {
				return err
			}

			m := g.RequestBotMove()
			opts.logger().Debugf("%s chose %s after %d nodes", player.Name(), m, player.Nodes())
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d %d %d\n", m.X1, m.Y1, m.X2, m.Y2)
			return nil
		},
	}
}

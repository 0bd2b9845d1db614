package main

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-ai/internal/config"
	"github.com/vancomm/minesweeper-ai/internal/grid"
	"github.com/vancomm/minesweeper-ai/internal/player"
)

var (
	playPreset      string
	playPresetsFile string
	playWidth       int
	playHeight      int
	playMines       int
	playUnique      bool
	playAssist      bool
	playGames       int
	playSeed        uint64
	playShow        bool
	playParallel    int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Autoplay boards and report how the solver fared",
	RunE:  runPlay,
}

func init() {
	flags := playCmd.Flags()
	flags.StringVarP(&playPreset, "preset", "p", "beginner", "board preset")
	flags.StringVar(&playPresetsFile, "presets-file", "", "YAML file with extra presets")
	flags.IntVar(&playWidth, "width", 0, "board width (overrides preset)")
	flags.IntVar(&playHeight, "height", 0, "board height (overrides preset)")
	flags.IntVar(&playMines, "mines", 0, "mine count (overrides preset)")
	flags.BoolVar(&playUnique, "unique", true, "only play boards solvable without guessing")
	flags.BoolVarP(&playAssist, "assist", "a", false, "consult the prover before guessing")
	flags.IntVarP(&playGames, "games", "n", 1, "number of games")
	flags.Uint64Var(&playSeed, "seed", 0, "base PRNG seed, game i plays with seed+i")
	flags.BoolVar(&playShow, "show", false, "render the final board of every game")
	flags.IntVar(&playParallel, "parallel", runtime.NumCPU(), "concurrent games")
}

type moveTally struct {
	moves, assisted, guesses int
}

func tallyMoves(p *player.Player) (t moveTally) {
	for _, m := range p.Moves() {
		t.moves++
		switch m.Strategy {
		case player.Assisted:
			t.assisted++
		case player.Guess:
			t.guesses++
		}
	}
	return t
}

func runPlay(cmd *cobra.Command, args []string) error {
	presets, err := config.Presets(playPresetsFile)
	if err != nil {
		return err
	}
	preset, ok := presets[playPreset]
	if !ok {
		return fmt.Errorf("unknown preset %q", playPreset)
	}

	params := preset.GameParams()
	flags := cmd.Flags()
	if flags.Changed("width") {
		params.Width = playWidth
	}
	if flags.Changed("height") {
		params.Height = playHeight
	}
	if flags.Changed("mines") {
		params.MineCount = playMines
	}
	if flags.Changed("unique") {
		params.Unique = playUnique
	}
	if err := params.Validate(); err != nil {
		return err
	}

	if playGames < 1 {
		return fmt.Errorf("nothing to play with %d games", playGames)
	}
	if !flags.Changed("seed") {
		playSeed = new(maphash.Hash).Sum64()
	}
	if !flags.Changed("show") {
		// quiet in pipes, boards on an interactive terminal
		playShow = isatty.IsTerminal(os.Stdout.Fd())
	}

	start := grid.Cell{Row: params.Height / 2, Col: params.Width / 2}

	players := make([]*player.Player, playGames)
	g := new(errgroup.Group)
	g.SetLimit(playParallel)
	for i := range playGames {
		g.Go(func() error {
			seed := playSeed + uint64(i)
			rnd := rand.New(rand.NewPCG(seed, seed))
			board, err := player.GenerateSolvable(params, start, rnd)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			p := player.New(board, start, rnd, playAssist)
			if _, err := p.Play(); err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			players[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var wins int
	var total moveTally
	for i, p := range players {
		t := tallyMoves(p)
		total.moves += t.moves
		total.assisted += t.assisted
		total.guesses += t.guesses
		if p.Status() == player.Won {
			wins++
		}

		fmt.Printf(
			"game %d: %s in %d moves (%d assisted, %d guesses) [seed %d]\n",
			i+1, p.Status(), t.moves, t.assisted, t.guesses, playSeed+uint64(i),
		)
		if playShow {
			p.Render(os.Stdout)
		}
	}

	fmt.Printf(
		"\n%s: won %d/%d | %d moves, %d assisted, %d guesses\n",
		params.Seed(), wins, playGames,
		total.moves, total.assisted, total.guesses,
	)
	return nil
}

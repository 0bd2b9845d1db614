package mines

import (
	"fmt"
	"strings"

	"github.com/vancomm/minesweeper-ai/internal/grid"
)

type GameParams struct {
	Width, Height, MineCount int
	Unique                   bool
}

func (p GameParams) Unpack() (w int, h int, mc int, u bool) {
	return p.Width, p.Height, p.MineCount, p.Unique
}

func (p GameParams) Bounds() grid.Bounds {
	return grid.Bounds{Width: p.Width, Height: p.Height}
}

func (p GameParams) Seed() string {
	u := 0
	if p.Unique {
		u = 1
	}
	return fmt.Sprintf("%d:%d:%d:%d", p.Width, p.Height, p.MineCount, u)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	u := 0
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(
		sseed, "%d %d %d %d", &p.Width, &p.Height, &p.MineCount, &u,
	)
	if n != 4 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	p.Unique = u == 1
	return p, nil
}

func (p GameParams) Validate() error {
	if p.Width < 1 || p.Height < 1 {
		return fmt.Errorf("grid %dx%d is empty", p.Width, p.Height)
	}
	if p.MineCount < 0 {
		return fmt.Errorf("mine count %d is negative", p.MineCount)
	}
	if p.MineCount >= p.Width*p.Height {
		return fmt.Errorf(
			"%d mines do not leave a safe cell on a %dx%d grid",
			p.MineCount, p.Width, p.Height,
		)
	}
	return nil
}

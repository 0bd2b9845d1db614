package player

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

type CellView int8

const (
	Hidden    CellView = -4
	KnownSafe CellView = -3
	KnownMine CellView = -2
	Exploded  CellView = -1
	/*
	 * 0 to 8 mean the cell is open and carries its adjacent mine
	 * count. Negative values are knowledge, not observations: a
	 * KnownSafe cell is proven clear but not yet opened, a KnownMine
	 * is proven mined and will never be opened.
	 */
)

func (v CellView) String() string {
	switch {
	case v == Hidden:
		return " "
	case v == KnownSafe:
		return "."
	case v == KnownMine:
		return "*"
	case v == Exploded:
		return "!"
	case 0 <= v && v <= 8:
		return strconv.Itoa(int(v))
	default:
		return "?"
	}
}

type View []CellView

// the classic count palette
var viewColors = map[CellView]*color.Color{
	1:         color.New(color.FgHiBlue),
	2:         color.New(color.FgGreen),
	3:         color.New(color.FgHiRed),
	4:         color.New(color.FgBlue),
	5:         color.New(color.FgRed),
	6:         color.New(color.FgCyan),
	7:         color.New(color.FgMagenta),
	8:         color.New(color.FgHiBlack),
	KnownMine: color.New(color.FgYellow),
	Exploded:  color.New(color.FgHiRed, color.Bold),
}

func (v View) ToString(width int) string {
	var b strings.Builder
	for y := range len(v) / width {
		for x := range width {
			i := y*width + x
			if i >= len(v) {
				break
			}
			s := v[i].String()
			if c, ok := viewColors[v[i]]; ok {
				s = c.Sprint(s)
			}
			fmt.Fprint(&b, s+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

/*
View renders what the player knows: revealed counts, proven mines,
proven-but-unopened safes, and on a lost game the mine that was hit.
*/
func (p *Player) View() View {
	bounds := p.board.Bounds()
	view := make(View, bounds.CellCount())
	for i := range view {
		view[i] = Hidden
	}
	for _, c := range p.know.Safes() {
		view[bounds.Index(c)] = KnownSafe
	}
	for _, c := range p.know.Mines() {
		view[bounds.Index(c)] = KnownMine
	}
	for _, m := range p.moves {
		if m.Mine {
			view[bounds.Index(m.Cell)] = Exploded
		} else {
			view[bounds.Index(m.Cell)] = CellView(m.Count)
		}
	}
	return view
}

// Render writes the knowledge view to w, one row per line. Colors
// follow [color.NoColor].
func (p *Player) Render(w io.Writer) {
	fmt.Fprint(w, p.View().ToString(p.board.Bounds().Width))
}

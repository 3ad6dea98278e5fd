package grid

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/thief-gridworld/types"
)

// Renderer prints grids to a terminal
type Renderer struct {
	env *GridEnvironment
	au  aurora.Aurora
}

func NewRenderer(g *GridEnvironment, colors bool) *Renderer {
	return &Renderer{env: g, au: aurora.NewAurora(colors)}
}

// cell returns the special marker of a position, if any
func (r *Renderer) cell(p Position) (aurora.Value, bool) {
	switch {
	case r.env.IsWall(p):
		return r.au.Faint("#"), true
	case p == r.env.Treasure():
		return r.au.Green("T"), true
	case p == r.env.Trap():
		return r.au.Red("X"), true
	}
	return nil, false
}

// RenderValues prints one value per cell
func (r *Renderer) RenderValues(w io.Writer, values types.ValueFunction) {
	size := r.env.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			p := Position{Row: row, Col: col}
			if marker, ok := r.cell(p); ok {
				fmt.Fprintf(w, "%7s", " ")
				fmt.Fprint(w, marker)
			} else {
				fmt.Fprint(w, r.au.Blue(format2x2(values[r.env.PosToState(p)])))
			}
			fmt.Fprint(w, r.au.White("|"))
		}
		fmt.Fprintln(w)
	}
}

// RenderPolicy prints the greedy action of every defined state,
// '?' marks an undefined row and '*' a uniform one
func (r *Renderer) RenderPolicy(w io.Writer, policy *types.Policy) {
	size := r.env.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			p := Position{Row: row, Col: col}
			s := r.env.PosToState(p)
			switch marker, ok := r.cell(p); {
			case ok:
				fmt.Fprint(w, " ", marker, " ")
			case !policy.Defined(s):
				fmt.Fprint(w, " ", r.au.Yellow("?"), " ")
			case isUniform(policy.Probs[s]):
				fmt.Fprint(w, " ", r.au.Yellow("*"), " ")
			default:
				fmt.Fprint(w, " ", r.au.Bold(arrows[policy.Greedy(s)]), " ")
			}
		}
		fmt.Fprintln(w)
	}
}

// RenderAgent prints the grid with the current agent position
func (r *Renderer) RenderAgent(w io.Writer) {
	size := r.env.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			p := Position{Row: row, Col: col}
			if p == r.env.Position() {
				fmt.Fprint(w, " ", r.au.Cyan("A"), " ")
			} else if marker, ok := r.cell(p); ok {
				fmt.Fprint(w, " ", marker, " ")
			} else {
				fmt.Fprint(w, " . ")
			}
		}
		fmt.Fprintln(w)
	}
}

func isUniform(dist []float64) bool {
	for _, p := range dist[1:] {
		if p != dist[0] {
			return false
		}
	}
	return len(dist) > 1
}

func format2x2(x float64) string {
	if x < 0 {
		return " -" + fmt.Sprintf("%05.2f", -x)
	}
	return fmt.Sprintf(" %05.2f", x)
}

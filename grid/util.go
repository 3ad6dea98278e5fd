package grid

import (
	"math"

	"github.com/zeu5/thief-gridworld/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ValueDataSet lays a value function out on the grid, row 0 on top.
// Wall cells read as NaN and are left blank by the heat map.
type ValueDataSet struct {
	Values types.ValueFunction
	Size   int
	walls  map[Position]bool
}

var _ plotter.GridXYZ = &ValueDataSet{}

func NewValueDataSet(g *GridEnvironment, values types.ValueFunction) *ValueDataSet {
	return &ValueDataSet{
		Values: values,
		Size:   g.cfg.Size,
		walls:  g.walls,
	}
}

func (d *ValueDataSet) Dims() (int, int) {
	return d.Size, d.Size
}

func (d *ValueDataSet) Z(c, r int) float64 {
	pos := Position{Row: d.Size - 1 - r, Col: c}
	if d.walls[pos] {
		return math.NaN()
	}
	return d.Values[pos.Row*d.Size+pos.Col]
}

func (d *ValueDataSet) X(c int) float64 {
	return float64(c)
}

func (d *ValueDataSet) Y(r int) float64 {
	return float64(r)
}

func (d *ValueDataSet) Min() float64 {
	min, _ := d.bounds()
	return min
}

func (d *ValueDataSet) Max() float64 {
	_, max := d.bounds()
	return max
}

func (d *ValueDataSet) bounds() (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for c := 0; c < d.Size; c++ {
		for r := 0; r < d.Size; r++ {
			v := d.Z(c, r)
			if math.IsNaN(v) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if math.IsInf(min, 1) {
		return 0, 1
	}
	if max == min {
		max = min + 1
	}
	return min, max
}

// SaveValueHeatmap plots the value function of the grid as a PNG file
func SaveValueHeatmap(filePath, title string, g *GridEnvironment, values types.ValueFunction) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row (top = 0)"
	p.Add(plotter.NewHeatMap(NewValueDataSet(g, values), palette.Heat(20, 1)))
	return p.Save(4*vg.Inch, 4*vg.Inch, filePath)
}

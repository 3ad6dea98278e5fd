package grid

import (
	"bytes"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/thief-gridworld/types"
)

func TestRenderPolicy(t *testing.T) {
	env := newTestEnv(t, nil)
	policy := types.UniformPolicy(env.NumStates(), env.NumActions())
	policy.SetGreedy(env.PosToState(Position{0, 0}), Right)
	policy.Undefine(env.PosToState(Position{0, 1}))

	var buf bytes.Buffer
	NewRenderer(env, false).RenderPolicy(&buf, policy)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, " →  ?  *  *  * ", lines[0])
	assert.Contains(t, lines[1], "#")
	assert.Contains(t, lines[2], "X")
	assert.Contains(t, lines[4], "T")
}

func TestRenderValues(t *testing.T) {
	env := newTestEnv(t, nil)
	values := types.NewValueFunction(env.NumStates())
	values[0] = 1.5
	values[1] = -2.25

	var buf bytes.Buffer
	NewRenderer(env, false).RenderValues(&buf, values)
	out := buf.String()
	assert.Contains(t, out, "01.50")
	assert.Contains(t, out, "-02.25")
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestRenderAgent(t *testing.T) {
	env := newTestEnv(t, nil)
	var buf bytes.Buffer
	NewRenderer(env, false).RenderAgent(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), " A "))
}

func TestGreedyRolloutAndVisits(t *testing.T) {
	env := newTestEnv(t, nil)
	policy := types.NewPolicy(env.NumStates(), env.NumActions())
	for s := 0; s < env.NumStates(); s++ {
		pos := env.StateToPos(types.State(s))
		if pos.Col < 4 && pos.Row == 0 {
			policy.SetGreedy(types.State(s), Right)
		} else {
			policy.SetGreedy(types.State(s), Down)
		}
	}

	path := GreedyRollout(env, policy, 100)
	assert.Equal(t, Position{4, 4}, path[len(path)-1])
	assert.Len(t, path, 9)
	assert.Zero(t, Visits(env, path, InPosition(env, env.Trap())))
	assert.Zero(t, Visits(env, path, OnWall(env)))
	assert.Equal(t, 1, Visits(env, path, InPosition(env, env.Treasure())))
}

func TestSaveValueHeatmap(t *testing.T) {
	env := newTestEnv(t, nil)
	values := types.NewValueFunction(env.NumStates())
	for s := range values {
		values[s] = float64(s)
	}
	file := path.Join(t.TempDir(), "values.png")
	require.NoError(t, SaveValueHeatmap(file, "values", env, values))

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestValueDataSet(t *testing.T) {
	env := newTestEnv(t, nil)
	values := types.NewValueFunction(env.NumStates())
	values[env.PosToState(Position{0, 0})] = 3
	values[env.PosToState(Position{4, 4})] = -1

	ds := NewValueDataSet(env, values)
	c, r := ds.Dims()
	assert.Equal(t, 5, c)
	assert.Equal(t, 5, r)
	// row 0 is drawn on top
	assert.Equal(t, 3.0, ds.Z(0, 4))
	assert.Equal(t, -1.0, ds.Z(4, 0))
	assert.True(t, ds.Z(1, 3) != ds.Z(1, 3), "wall cells are NaN")
	assert.Equal(t, -1.0, ds.Min())
	assert.Equal(t, 3.0, ds.Max())
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	trace := NewTrace()
	_, _, _, ok := trace.Last()
	assert.False(t, ok)

	trace.Append(0, 1, 0)
	trace.Append(1, 3, 10)
	assert.Equal(t, 2, trace.Len())
	assert.Equal(t, 10.0, trace.TotalReward())

	s, a, r, ok := trace.Last()
	require.True(t, ok)
	assert.Equal(t, State(1), s)
	assert.Equal(t, Action(3), a)
	assert.Equal(t, 10.0, r)

	_, _, _, ok = trace.Get(2)
	assert.False(t, ok)
}

func repeatedPairTrace() *Trace {
	trace := NewTrace()
	// (0,1) is visited twice
	trace.Append(0, 1, 0)
	trace.Append(1, 0, 0)
	trace.Append(0, 1, 0)
	trace.Append(2, 2, 10)
	return trace
}

func TestFirstVisitReturns(t *testing.T) {
	// walking backwards the later (0,1) is met first and wins
	returns := repeatedPairTrace().FirstVisitReturns(0.5)
	require.Len(t, returns, 3)
	assert.Equal(t, VisitReturn{State: 2, Action: 2, Return: 10}, returns[0])
	assert.Equal(t, VisitReturn{State: 0, Action: 1, Return: 5}, returns[1])
	assert.Equal(t, VisitReturn{State: 1, Action: 0, Return: 2.5}, returns[2])
}

func TestEarliestVisitReturns(t *testing.T) {
	returns := repeatedPairTrace().EarliestVisitReturns(0.5)
	require.Len(t, returns, 3)
	assert.Equal(t, VisitReturn{State: 2, Action: 2, Return: 10}, returns[0])
	assert.Equal(t, VisitReturn{State: 1, Action: 0, Return: 2.5}, returns[1])
	assert.Equal(t, VisitReturn{State: 0, Action: 1, Return: 1.25}, returns[2])
}

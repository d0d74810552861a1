package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funnel-engine/internal/common/errors"
)

func TestDefaultGraphValidates(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "start", g.EntryID())
	assert.Equal(t, 27, g.Size())
}

func TestNewRejectsDanglingEdges(t *testing.T) {
	tests := []struct {
		name    string
		entryID string
		nodes   map[string]*Node
	}{
		{
			name:    "missing entry node",
			entryID: "start",
			nodes: map[string]*Node{
				"other": {ID: "other", Kind: KindResult},
			},
		},
		{
			name:    "answer points at unknown node",
			entryID: "start",
			nodes: map[string]*Node{
				"start": {
					ID:   "start",
					Kind: KindQuestion,
					Answers: []Answer{
						{ID: "a", NextNodeID: "nowhere"},
					},
				},
			},
		},
		{
			name:    "transition points at unknown node",
			entryID: "start",
			nodes: map[string]*Node{
				"start": {ID: "start", Kind: KindTransition, NextNodeID: "nowhere"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.entryID, tt.nodes, nil)
			require.Error(t, err)
			assert.Nil(t, g)

			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeGraphValidationFailed, stdErr.Code)
		})
	}
}

func TestNewAllowsEmptyAnswerTarget(t *testing.T) {
	// An answer with no next node applies its effects without navigating.
	g, err := New("start", map[string]*Node{
		"start": {
			ID:   "start",
			Kind: KindQuestion,
			Answers: []Answer{
				{ID: "done", NextNodeID: ""},
			},
		},
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, g)
}

func TestNodeByID(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	node, err := g.NodeByID("payment-method")
	require.NoError(t, err)
	assert.Equal(t, KindQuestion, node.Kind)
	assert.Equal(t, "qualification", node.Category)
	require.NotNil(t, node.Answer("cash"))
	assert.Equal(t, 30, node.Answer("cash").Score)
	assert.Nil(t, node.Answer("wire-transfer"))

	_, err = g.NodeByID("no-such-node")
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnknownNode, stdErr.Code)
}

func TestProgressTable(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 5, g.Progress("start"))
	assert.Equal(t, 68, g.Progress("payment-method"))
	assert.Equal(t, 100, g.Progress("result-hot"))
	assert.Equal(t, 100, g.Progress("result-warm"))
	assert.Equal(t, 0, g.Progress("unknown-node"))
}

func TestQuestionIDsSortedAndComplete(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	ids := g.QuestionIDs()
	assert.Len(t, ids, 20)
	assert.IsIncreasing(t, ids)

	// Lead-capture, transition and result nodes are excluded.
	assert.NotContains(t, ids, "first-name-capture")
	assert.NotContains(t, ids, "contact-capture")
	assert.NotContains(t, ids, "land-education")
	assert.NotContains(t, ids, "result-hot")
	assert.Contains(t, ids, "final-question")
	assert.Contains(t, ids, "down-payment-amount")
}

func TestResultNodesAreTerminal(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	for _, id := range []string{"result-hot", "result-warm"} {
		node, err := g.NodeByID(id)
		require.NoError(t, err)
		assert.Equal(t, KindResult, node.Kind)
		assert.Empty(t, node.NextNodeID)
		assert.Empty(t, node.Answers)
	}
}

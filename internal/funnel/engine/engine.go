// Package engine drives a funnel run across the question graph. It owns the
// pure transition rules; durable persistence of their effects belongs to the
// caller.
package engine

import (
	"strings"

	"funnel-engine/internal/common/errors"
	"funnel-engine/internal/funnel/graph"
	"funnel-engine/internal/models"
)

// RunState is the navigable position of one funnel run. It is a cheap
// projection that can be rebuilt or cached; score and tags live on the
// session record, not here.
type RunState struct {
	SessionID     string            `json:"sessionId"`
	CurrentNodeID string            `json:"currentNodeId"`
	History       []string          `json:"history"`
	FirstName     string            `json:"firstName,omitempty"`
	Answers       map[string]string `json:"answers"`
	Completed     bool              `json:"completed"`
}

// Step describes the effects of one accepted transition. ScoreDelta and Tags
// are the qualification effects to merge into the session; Lead carries any
// contact fields collected on this step.
type Step struct {
	FromNodeID string
	NodeID     string
	Progress   int
	ScoreDelta int
	Tags       []string
	AnswerText string
	Lead       *models.LeadFields
	Completed  bool
}

// Engine applies transition rules over an immutable graph.
type Engine struct {
	graph *graph.Graph
}

// New returns an engine over the given validated graph.
func New(g *graph.Graph) *Engine {
	return &Engine{graph: g}
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// NewRun returns the run state at the graph's entry node.
func (e *Engine) NewRun(sessionID string) *RunState {
	return &RunState{
		SessionID:     sessionID,
		CurrentNodeID: e.graph.EntryID(),
		History:       []string{},
		Answers:       map[string]string{},
	}
}

// SelectAnswer applies an answer pick on a question node: accumulates the
// answer's score and tags, records the answer, and moves to its target. An
// answer with no target applies its effects without navigating.
func (e *Engine) SelectAnswer(state *RunState, answerID string) (*Step, error) {
	node, err := e.currentNode(state, graph.KindQuestion)
	if err != nil {
		return nil, err
	}

	ans := node.Answer(answerID)
	if ans == nil {
		return nil, errors.NewUnknownAnswerError(node.ID, answerID)
	}

	if state.Answers == nil {
		state.Answers = map[string]string{}
	}
	state.Answers[node.ID] = ans.ID

	step := &Step{
		FromNodeID: node.ID,
		ScoreDelta: ans.Score,
		Tags:       ans.Tags,
		AnswerText: ans.Text,
	}
	e.moveTo(state, step, ans.NextNodeID)
	return step, nil
}

// SubmitLeadFields applies a contact submission on a lead-capture node. The
// submitted values are validated against the fields the node asks for; on any
// failure nothing moves. Extra fields the node did not ask for are ignored.
func (e *Engine) SubmitLeadFields(state *RunState, fields models.LeadFields) (*Step, error) {
	node, err := e.currentNode(state, graph.KindLeadCapture)
	if err != nil {
		return nil, err
	}

	captured, err := validateLeadFields(node.LeadFields, fields)
	if err != nil {
		return nil, err
	}

	if captured.FirstName != "" {
		state.FirstName = captured.FirstName
	}

	step := &Step{
		FromNodeID: node.ID,
		Lead:       captured,
	}
	e.moveTo(state, step, node.NextNodeID)
	return step, nil
}

// ContinueTransition acknowledges an informational node and moves on. It has
// no qualification effect.
func (e *Engine) ContinueTransition(state *RunState) (*Step, error) {
	node, err := e.currentNode(state, graph.KindTransition)
	if err != nil {
		return nil, err
	}

	step := &Step{FromNodeID: node.ID}
	e.moveTo(state, step, node.NextNodeID)
	return step, nil
}

// GoBack returns to the previously visited node. Score and tags accumulated
// on the way are deliberately kept; only the position rewinds. At the entry
// with empty history it is a no-op.
func (e *Engine) GoBack(state *RunState) (*Step, error) {
	if state.Completed {
		return nil, errors.NewUnknownNodeError(state.CurrentNodeID)
	}
	if len(state.History) == 0 {
		return &Step{
			FromNodeID: state.CurrentNodeID,
			NodeID:     state.CurrentNodeID,
			Progress:   e.graph.Progress(state.CurrentNodeID),
		}, nil
	}

	last := len(state.History) - 1
	prev := state.History[last]
	state.History = state.History[:last]

	step := &Step{
		FromNodeID: state.CurrentNodeID,
		NodeID:     prev,
		Progress:   e.graph.Progress(prev),
	}
	state.CurrentNodeID = prev
	return step, nil
}

// moveTo pushes the current node onto history and advances to target. An
// empty target leaves the position untouched: qualification effects still
// apply but nothing navigates. A result-kind target completes the run.
func (e *Engine) moveTo(state *RunState, step *Step, target string) {
	if target == "" {
		step.NodeID = state.CurrentNodeID
		step.Progress = e.graph.Progress(state.CurrentNodeID)
		return
	}

	state.History = append(state.History, state.CurrentNodeID)
	state.CurrentNodeID = target
	step.NodeID = target
	step.Progress = e.graph.Progress(target)

	// Closure was validated at construction, so the target exists.
	node, _ := e.graph.NodeByID(target)
	if node.Kind == graph.KindResult {
		step.Completed = true
		state.Completed = true
	}
}

func (e *Engine) currentNode(state *RunState, want graph.NodeKind) (*graph.Node, error) {
	node, err := e.graph.NodeByID(state.CurrentNodeID)
	if err != nil {
		return nil, err
	}
	if node.Kind != want {
		return nil, errors.NewUnknownNodeError(state.CurrentNodeID)
	}
	return node, nil
}

// Personalize substitutes {{firstName}} placeholders in display copy,
// falling back to "there" when no first name was captured yet.
func Personalize(text, firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return strings.ReplaceAll(text, "{{firstName}}", name)
}

// Package graph defines the funnel's directed question graph and validates
// its closure at startup.
package graph

import (
	"sort"

	"funnel-engine/internal/common/errors"
)

// NodeKind distinguishes how a node is presented and how it advances.
type NodeKind string

const (
	// KindQuestion presents answer options; advancing requires picking one.
	KindQuestion NodeKind = "question"
	// KindLeadCapture collects contact fields before advancing.
	KindLeadCapture NodeKind = "lead-capture"
	// KindTransition is informational; it advances on acknowledgement.
	KindTransition NodeKind = "transition"
	// KindResult is terminal; arriving at one completes the run.
	KindResult NodeKind = "result"
)

// Lead-capture field names. These are the only fields a lead-capture node may
// request.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
)

// Answer is one selectable option on a question node. Score and Tags are the
// qualification effects of selecting it; NextNodeID is where the run moves.
type Answer struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Subtext    string   `json:"subtext,omitempty"`
	Icon       string   `json:"icon,omitempty"`
	NextNodeID string   `json:"nextQuestionId"`
	Score      int      `json:"qualificationScore,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Node is one step in the funnel. Which fields are populated depends on Kind:
// question nodes carry Answers, lead-capture nodes carry LeadFields and
// NextNodeID, transition nodes carry NextNodeID, result nodes carry neither.
type Node struct {
	ID          string   `json:"id"`
	Kind        NodeKind `json:"type"`
	Category    string   `json:"category,omitempty"`
	Headline    string   `json:"headline"`
	Subheadline string   `json:"subheadline,omitempty"`
	Answers     []Answer `json:"answers,omitempty"`
	LeadFields  []string `json:"leadFields,omitempty"`
	NextNodeID  string   `json:"nextQuestionId,omitempty"`
}

// Answer returns the answer with the given id, or nil if the node has no
// such option.
func (n *Node) Answer(answerID string) *Answer {
	for i := range n.Answers {
		if n.Answers[i].ID == answerID {
			return &n.Answers[i]
		}
	}
	return nil
}

// Graph is a validated, immutable funnel definition.
type Graph struct {
	entryID     string
	nodes       map[string]*Node
	progress    map[string]int
	questionIDs []string
}

// New validates closure over the node set and returns an immutable graph.
// Every NextNodeID referenced by any node or answer must name an existing
// node; a dangling edge is a startup error, never a runtime one.
func New(entryID string, nodes map[string]*Node, progress map[string]int) (*Graph, error) {
	if _, ok := nodes[entryID]; !ok {
		return nil, errors.NewGraphValidationError("entry", entryID)
	}
	for id, node := range nodes {
		if node.NextNodeID != "" {
			if _, ok := nodes[node.NextNodeID]; !ok {
				return nil, errors.NewGraphValidationError(id, node.NextNodeID)
			}
		}
		for _, ans := range node.Answers {
			// An empty NextNodeID on an answer is legal: the answer applies
			// its effects without navigating anywhere.
			if ans.NextNodeID == "" {
				continue
			}
			if _, ok := nodes[ans.NextNodeID]; !ok {
				return nil, errors.NewGraphValidationError(id, ans.NextNodeID)
			}
		}
	}

	questionIDs := make([]string, 0, len(nodes))
	for id, node := range nodes {
		if node.Kind == KindQuestion {
			questionIDs = append(questionIDs, id)
		}
	}
	sort.Strings(questionIDs)

	return &Graph{
		entryID:     entryID,
		nodes:       nodes,
		progress:    progress,
		questionIDs: questionIDs,
	}, nil
}

// EntryID returns the id of the node every run starts at.
func (g *Graph) EntryID() string {
	return g.entryID
}

// NodeByID returns the node with the given id, or an UnknownNode error.
func (g *Graph) NodeByID(id string) (*Node, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, errors.NewUnknownNodeError(id)
	}
	return node, nil
}

// Progress returns the completion percentage shown at the given node,
// or 0 when the node has no entry in the progress table.
func (g *Graph) Progress(nodeID string) int {
	return g.progress[nodeID]
}

// QuestionIDs returns the ids of all question-kind nodes in sorted order.
// Webhook payload assembly uses this to emit a column per question.
func (g *Graph) QuestionIDs() []string {
	out := make([]string, len(g.questionIDs))
	copy(out, g.questionIDs)
	return out
}

// Size returns the number of nodes in the graph.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// Package conversation drives a screening conversation one candidate message
// at a time.
package conversation

import (
	"github.com/google/uuid"

	"github.com/spigell/talentscout/internal/ai"
)

// Stage is the position of a session in the screening flow. Stages only move
// forward and StageFinished is terminal.
type Stage int

const (
	StageGreeting Stage = iota
	StageCollecting
	StageTechQuestions
	StageFinished
)

func (s Stage) String() string {
	switch s {
	case StageGreeting:
		return "greeting"
	case StageCollecting:
		return "collecting"
	case StageTechQuestions:
		return "tech_questions"
	case StageFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// GeneratedQuestions keeps the latest question set produced for a candidate.
type GeneratedQuestions struct {
	ByTech []string `json:"by_tech" yaml:"by_tech" mapstructure:"by_tech"`
	Raw    string   `json:"raw" yaml:"raw" mapstructure:"raw"`
}

// Session is the state of one candidate conversation. It is owned by the
// caller; a reset means discarding it and calling NewSession again.
type Session struct {
	ID    string
	Stage Stage
	// Collected holds validated field values keyed by field name.
	Collected map[string]string
	// AwaitingField is the field the next message answers. Empty when unset.
	AwaitingField          string
	LastGeneratedQuestions GeneratedQuestions
	Transcript             []ai.Message
}

func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Stage:     StageGreeting,
		Collected: make(map[string]string),
	}
}

func (s *Session) append(role ai.Role, content string) {
	s.Transcript = append(s.Transcript, ai.Message{Role: role, Content: content})
}

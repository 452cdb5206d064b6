package api

import (
	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

// MatchView is the JSON body of GET /matches/{id}.
type MatchView struct {
	ID         string             `json:"id"`
	Round      int                `json:"round"`
	Rounds     int                `json:"rounds"`
	ThrowsLeft int                `json:"throws_left"`
	Complete   bool               `json:"complete"`
	Active     bool               `json:"active"`
	Dice       []dice.State       `json:"dice"`
	Choices    []scoring.Category `json:"choices"`
	Total      int                `json:"total"`
}

// ScoreLine is one played category.
type ScoreLine struct {
	Category scoring.Category `json:"category"`
	Points   int              `json:"points"`
}

// ScoreSheet is the JSON body of GET /matches/{id}/scores.
type ScoreSheet struct {
	ID       string      `json:"id"`
	Scores   []ScoreLine `json:"scores"`
	Total    int         `json:"total"`
	Complete bool        `json:"complete"`
}

// Health is the JSON body of GET /healthz.
type Health struct {
	Status        string `json:"status"`
	ActiveMatches int    `json:"active_matches"`
	Error         string `json:"error,omitempty"`
}

// ErrorBody is returned with every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

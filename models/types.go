package models

// Session states
const (
	StateLoading  = "loading"
	StateReady    = "ready"
	StateResolved = "resolved"
)

// Outcome messages
const (
	MessageCorrect   = "correct"
	MessageIncorrect = "incorrect"
)

// Domain types

// Item is one comparable entity with its accumulated counters.
// Invariant: 0 <= Wins <= Votes.
type Item struct {
	ID      string `json:"id"`
	Payload string `json:"payload"` // image URL or other content reference, opaque to the engine
	Votes   int64  `json:"votes"`
	Wins    int64  `json:"wins"`
}

// Pair is the two distinct items offered in one round
type Pair [2]Item

// Delta is an additive change to one item's counters
type Delta struct {
	ItemID string `json:"item_id"`
	Votes  int64  `json:"votes"`
	Wins   int64  `json:"wins"`
}

// Evaluation is the judgment of one choice, computed from the pair snapshot
type Evaluation struct {
	Correct     bool    `json:"correct"`
	ChosenScore float64 `json:"chosen_score"`
	OtherScore  float64 `json:"other_score"`
	Chosen      Delta   `json:"chosen"`
	Other       Delta   `json:"other"`
}

type Outcome struct {
	Correct bool   `json:"correct"`
	Partial bool   `json:"partial,omitempty"`
	Message string `json:"message"`
}

type RankedItem struct {
	Rank  int     `json:"rank"` // 1-indexed ranking
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
}

// Request types

type ChooseRequest struct {
	Index *int `json:"index"`
}

// Response types

// ItemView is an item as shown to a voter. Counters stay hidden until
// the round is resolved.
type ItemView struct {
	ID      string   `json:"id"`
	Payload string   `json:"payload"`
	Votes   *int64   `json:"votes,omitempty"`
	Wins    *int64   `json:"wins,omitempty"`
	Score   *float64 `json:"score,omitempty"`
}

type SessionView struct {
	SessionID string     `json:"session_id"`
	State     string     `json:"state"`
	Pair      []ItemView `json:"pair,omitempty"`
	Outcome   *Outcome   `json:"outcome,omitempty"`
}

type LeaderboardResponse struct {
	Items []RankedItem `json:"items"`
	Total int          `json:"total"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// internal/match/types.go
//
// Core type definitions for the match-game engine.
// Defines:
//   - Phase: lifecycle state of a play session.
//   - Role: which side of a pair a tile represents (term/definition).
//   - Options, PairText, Definition: the authored game, as served by the API.
//   - Pair: a deck entry with a session-stable identity.
//   - Tile: a round-scoped instance of one side of a pair.
//   - DropOutcome, PairTally, Result, Snapshot: values emitted to callers.

package match

// Phase represents the lifecycle state of a session.
// Transitions are driven exclusively by the session's event methods;
// an event arriving in the wrong phase is a silent no-op.
type Phase string

const (
	PhaseSplash        Phase = "splash"         // idle, showing instructions/results
	PhaseDealing       Phase = "dealing"        // round computed, tiles entering
	PhasePlaying       Phase = "playing"        // tiles interactive, timer running
	PhaseRoundClearing Phase = "round_clearing" // board emptied, next deal pending
	PhaseTimeExpired   Phase = "time_expired"   // countdown hit zero, inputs locked
	PhaseGameOver      Phase = "game_over"      // results reported, back to splash next
)

// Role distinguishes the two tile columns on the board.
type Role string

const (
	RoleTerm       Role = "term"
	RoleDefinition Role = "definition"
)

// Options are the authored game settings.
type Options struct {
	ColorScheme   string `json:"colorScheme"`   // "mono" | "rainbow"
	Duration      int    `json:"duration"`      // game length in seconds
	ItemsPerBoard int    `json:"itemsPerBoard"` // tiles per column per round
}

// PairText is one authored term/definition association.
type PairText struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Definition is an authored match game, delivered by the data-loading
// collaborator before a session may start.
type Definition struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Instructions string     `json:"instructions"`
	Options      Options    `json:"options"`
	Pairs        []PairText `json:"pairs"`
}

// Pair is a deck entry. Its ID is assigned once per session and is the
// identity drops are scored against (never the pair's display text).
type Pair struct {
	ID         string `json:"pairId"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Tile is a round-scoped projection of a Pair onto one role. The term tile
// and definition tile of the same pair carry different tile IDs but share
// PairID. Tiles live from a deal until their exit is confirmed.
type Tile struct {
	ID      string `json:"tileId"`
	PairID  string `json:"pairId"`
	Role    Role   `json:"role"`
	Text    string `json:"text"`
	Color   string `json:"color,omitempty"` // term tiles only, rainbow scheme
	Visible bool   `json:"visible"`
	Matched bool   `json:"matched"`
}

// DropOutcome reports the result of a single drop event back to the
// drag-and-drop collaborator, which uses it for feedback animation.
type DropOutcome struct {
	Matched          bool   `json:"matched"`
	TermTileID       string `json:"termTileId"`
	DefinitionTileID string `json:"definitionTileId"`
	Correct          int    `json:"correct"`
	Incorrect        int    `json:"incorrect"`
	Score            int    `json:"score"`
	Unmatched        int    `json:"unmatched"`
}

// PairTally is the per-pair hit/miss breakdown accumulated over a session.
type PairTally struct {
	PairID     string `json:"pairId"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Hits       int    `json:"hits"`
	Misses     int    `json:"misses"`
}

// Result is the final report emitted at most once per completed session.
type Result struct {
	Correct   int         `json:"correct"`
	Incorrect int         `json:"incorrect"`
	Score     int         `json:"score"`
	Pairs     []PairTally `json:"pairs,omitempty"`
}

// Snapshot is a deep-copied, read-only view of session state for the
// presentation layer. Mutations must go through the session's events.
type Snapshot struct {
	ID           string `json:"id"`
	Phase        Phase  `json:"phase"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Instructions string `json:"instructions"`
	Playing      bool   `json:"playing"`
	Correct      int    `json:"correct"`
	Incorrect    int    `json:"incorrect"`
	Score        int    `json:"score"`
	Unmatched    int    `json:"unmatched"`
	Remaining    int    `json:"remaining"` // seconds left on the countdown
	Duration     int    `json:"duration"`
	Terms        []Tile `json:"terms"`
	Definitions  []Tile `json:"definitions"`
}

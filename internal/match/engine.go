// internal/match/engine.go
//
// Core engine for a single match-game session.
// Responsibilities:
//   - Own the session lifecycle: splash → dealing → playing → round_clearing
//     (→ dealing …) → time_expired → game_over → splash.
//   - Deal rounds: shuffle the deck, take min(itemsPerBoard, deck size),
//     instantiate one term tile and one definition tile per selected pair,
//     color term tiles, shuffle each column independently.
//   - Score drops by pair identity (never tile identity or display text).
//   - Apply the two-phase removal protocol: Drop marks tiles hidden/matched,
//     Exit confirms removal once the presentation layer finishes the hide
//     animation. The round is cleared only when both columns are empty.
//   - Run the countdown from externally delivered ticks and report the final
//     result at most once per session.
//
// Notes:
//   - Every event arriving in the wrong phase is a silent no-op. The engine
//     never errors or panics mid-session; animation races must not crash play.
//   - Transitions rebuild tile slices rather than mutating elements in place,
//     so snapshots taken before an event stay valid for comparison after it.
//   - Delayed follow-ups (next-round deal, game-over settle) are scheduled by
//     the caller; phase preconditions suppress stale ones after a restart.

package match

import (
	"errors"
	"math/rand"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Defaults applied when the authored options omit a value.
const (
	defaultColorScheme   = "mono"
	defaultDuration      = 180
	defaultItemsPerBoard = 9

	idLength = 10
)

// TickInterval is the cadence the timer collaborator is expected to call
// TimerTick at. One tick consumes one second of the session's duration.
const TickInterval = 1000 // milliseconds

// Session is the sole source of truth for one play session of one game.
// All event methods are safe to call from an HTTP driver; events are applied
// strictly in arrival order under the session lock.
type Session struct {
	mu sync.Mutex

	id           string
	title        string
	author       string
	instructions string
	opts         Options
	deck         []Pair // full pair bank, identities stable for the session

	phase       Phase
	correct     int
	incorrect   int
	score       int
	remaining   int // seconds left
	terms       []Tile
	definitions []Tile
	unmatched   int
	tally       map[string]*PairTally // keyed by pair ID
	reported    bool
}

// New builds a session from an authored definition. The definition must have
// at least one pair; itemsPerBoard larger than the deck is allowed (rounds
// shrink to the deck size).
func New(def Definition) (*Session, error) {
	if len(def.Pairs) == 0 {
		return nil, errors.New("match definition has no pairs")
	}
	opts := def.Options
	if opts.ColorScheme == "" {
		opts.ColorScheme = defaultColorScheme
	}
	if opts.Duration <= 0 {
		opts.Duration = defaultDuration
	}
	if opts.ItemsPerBoard <= 0 {
		opts.ItemsPerBoard = defaultItemsPerBoard
	}

	deck := make([]Pair, len(def.Pairs))
	for i, p := range def.Pairs {
		deck[i] = Pair{ID: newID(), Term: p.Term, Definition: p.Definition}
	}

	return &Session{
		id:           newID(),
		title:        def.Title,
		author:       def.Author,
		instructions: def.Instructions,
		opts:         opts,
		deck:         deck,
		phase:        PhaseSplash,
		remaining:    opts.Duration,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Start begins a fresh play-through. Valid from splash or game over; resets
// counters and the per-pair tally, deals the first round, and arms the
// countdown. The timer collaborator should begin ticking once the round's
// entry transition completes.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSplash && s.phase != PhaseGameOver {
		return
	}
	s.correct, s.incorrect, s.score = 0, 0, 0
	s.tally = make(map[string]*PairTally)
	s.reported = false
	s.remaining = s.opts.Duration
	s.dealLocked()
	s.phase = PhaseDealing
}

// Deal starts the next round after the board cleared. The presentation layer
// calls this once its settle delay elapses; if the session was restarted in
// the meantime the stale call no-ops on the phase check.
func (s *Session) Deal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseRoundClearing {
		return
	}
	s.dealLocked()
	s.phase = PhaseDealing
}

// dealLocked computes a new round. Caller holds s.mu.
func (s *Session) dealLocked() {
	deck := make([]Pair, len(s.deck))
	copy(deck, s.deck)
	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	n := len(deck)
	if s.opts.ItemsPerBoard < n {
		n = s.opts.ItemsPerBoard
	}
	picked := deck[:n]

	colors := roundColors(s.opts.ColorScheme, n)
	terms := make([]Tile, n)
	defs := make([]Tile, n)
	for i, p := range picked {
		terms[i] = Tile{ID: newID(), PairID: p.ID, Role: RoleTerm, Text: p.Term, Color: colors[i], Visible: true}
		defs[i] = Tile{ID: newID(), PairID: p.ID, Role: RoleDefinition, Text: p.Definition, Visible: true}
	}
	rand.Shuffle(len(terms), func(i, j int) { terms[i], terms[j] = terms[j], terms[i] })
	rand.Shuffle(len(defs), func(i, j int) { defs[i], defs[j] = defs[j], defs[i] })

	s.terms = terms
	s.definitions = defs
	s.unmatched = n
}

// Drop scores a term tile released onto a definition tile. A match is a
// pair-identity equality between the dragged term and the target definition;
// two pairs sharing identical definition text never cross-match. On a match
// exactly the two named tiles are marked hidden+matched; logical removal
// waits for Exit. Unknown tile IDs, tiles already matched and awaiting exit,
// and wrong-phase calls are no-ops (ok=false) and leave all counters
// untouched.
func (s *Session) Drop(termTileID, definitionTileID string) (DropOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePlaying {
		return DropOutcome{}, false
	}
	ti := tileIndex(s.terms, termTileID)
	di := tileIndex(s.definitions, definitionTileID)
	if ti < 0 || di < 0 {
		return DropOutcome{}, false
	}

	term := s.terms[ti]
	def := s.definitions[di]
	// A matched tile is only awaiting its exit confirmation; it is no longer
	// a live drop source or target.
	if term.Matched || def.Matched {
		return DropOutcome{}, false
	}
	matched := term.PairID == def.PairID

	if matched {
		s.correct++
		s.score++
		s.unmatched--
		s.terms = hideTile(s.terms, termTileID)
		s.definitions = hideTile(s.definitions, definitionTileID)
	} else {
		s.incorrect++
		if s.score > 0 {
			s.score--
		}
	}
	s.tallyDrop(term, matched)

	return DropOutcome{
		Matched:          matched,
		TermTileID:       termTileID,
		DefinitionTileID: definitionTileID,
		Correct:          s.correct,
		Incorrect:        s.incorrect,
		Score:            s.score,
		Unmatched:        s.unmatched,
	}, true
}

// Exit confirms that a tile's hide transition finished and removes it from
// its column, reshuffling the remainder so refreshed boards don't telegraph
// position patterns. Returns true exactly once per round: on the event that
// empties the second of the two columns, which moves the session to
// round_clearing. The caller then schedules Deal after its settle delay.
func (s *Session) Exit(tileID string, role Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePlaying && s.phase != PhaseDealing {
		return false
	}

	switch role {
	case RoleTerm:
		rest, ok := removeTile(s.terms, tileID)
		if !ok {
			return false
		}
		rand.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		s.terms = rest
	case RoleDefinition:
		rest, ok := removeTile(s.definitions, tileID)
		if !ok {
			return false
		}
		rand.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		s.definitions = rest
	default:
		return false
	}

	if len(s.terms) == 0 && len(s.definitions) == 0 {
		s.phase = PhaseRoundClearing
		return true
	}
	return false
}

// TimerTick consumes one second of the countdown. The first tick after a deal
// flips the board interactive (dealing → playing); at zero the session locks
// inputs and waits for the caller's settle delay to invoke Finish. Ticks in
// any other phase are ignored, so stopping the producer is the only
// cancellation needed.
func (s *Session) TimerTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhaseDealing:
		s.phase = PhasePlaying
	case PhasePlaying, PhaseRoundClearing:
	default:
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		s.phase = PhaseTimeExpired
	}
}

// Finish completes the time_expired → game_over transition after the
// caller's settle delay and emits the final result. The result is emitted at
// most once per session: repeat calls, and stale calls arriving after a
// restart, return ok=false.
func (s *Session) Finish() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseTimeExpired || s.reported {
		return Result{}, false
	}
	s.reported = true
	s.phase = PhaseGameOver
	return s.resultLocked(), true
}

// ToSplash returns to the splash screen after game over ("play again" path).
func (s *Session) ToSplash() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseGameOver {
		return
	}
	s.phase = PhaseSplash
}

// Snapshot returns a deep-copied view of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	terms := make([]Tile, len(s.terms))
	copy(terms, s.terms)
	defs := make([]Tile, len(s.definitions))
	copy(defs, s.definitions)
	return Snapshot{
		ID:           s.id,
		Phase:        s.phase,
		Title:        s.title,
		Author:       s.author,
		Instructions: s.instructions,
		Playing:      s.phase == PhasePlaying,
		Correct:      s.correct,
		Incorrect:    s.incorrect,
		Score:        s.score,
		Unmatched:    s.unmatched,
		Remaining:    s.remaining,
		Duration:     s.opts.Duration,
		Terms:        terms,
		Definitions:  defs,
	}
}

// resultLocked builds the final report. Caller holds s.mu.
func (s *Session) resultLocked() Result {
	res := Result{Correct: s.correct, Incorrect: s.incorrect, Score: s.score}
	for _, p := range s.deck {
		if t, ok := s.tally[p.ID]; ok {
			res.Pairs = append(res.Pairs, *t)
		}
	}
	return res
}

// tallyDrop records a hit or miss against the dragged term's pair.
// Caller holds s.mu.
func (s *Session) tallyDrop(term Tile, matched bool) {
	t, ok := s.tally[term.PairID]
	if !ok {
		t = &PairTally{PairID: term.PairID, Term: term.Text}
		for _, p := range s.deck {
			if p.ID == term.PairID {
				t.Definition = p.Definition
				break
			}
		}
		s.tally[term.PairID] = t
	}
	if matched {
		t.Hits++
	} else {
		t.Misses++
	}
}

// tileIndex finds a tile by ID, or -1.
func tileIndex(tiles []Tile, id string) int {
	for i := range tiles {
		if tiles[i].ID == id {
			return i
		}
	}
	return -1
}

// hideTile returns a new slice with the named tile marked hidden and matched.
// The input slice and its elements are left untouched.
func hideTile(tiles []Tile, id string) []Tile {
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	for i := range out {
		if out[i].ID == id {
			out[i].Visible = false
			out[i].Matched = true
		}
	}
	return out
}

// removeTile returns a new slice without the named tile. ok is false when the
// ID is unknown (the caller treats that as a no-op).
func removeTile(tiles []Tile, id string) ([]Tile, bool) {
	i := tileIndex(tiles, id)
	if i < 0 {
		return nil, false
	}
	out := make([]Tile, 0, len(tiles)-1)
	out = append(out, tiles[:i]...)
	out = append(out, tiles[i+1:]...)
	return out, true
}

// newID returns a compact collision-resistant identifier.
func newID() string {
	return gonanoid.Must(idLength)
}

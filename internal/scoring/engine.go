package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Engine serializes scoring events for one live match. Every mutation goes
// through Apply under the engine's mutex; after a successful transition the
// snapshot is pushed to the store and the update sink. Store failures are
// logged and never roll back the applied state.
type Engine struct {
	mu    sync.Mutex
	st    *MatchState
	store MatchStore
	sink  UpdateSink
}

// NewEngine validates the match configuration and builds an engine at the
// pre-first-ball state. store and sink may be nil.
func NewEngine(cfg MatchConfig, store MatchStore, sink UpdateSink) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Engine{st: NewMatchState(cfg), store: store, sink: sink}, nil
}

// Resume wraps a previously persisted state in a fresh engine.
func Resume(st *MatchState, store MatchStore, sink UpdateSink) *Engine {
	return &Engine{st: st, store: store, sink: sink}
}

// Replay folds an accepted event log over a fresh state. A log produced by
// this engine always replays cleanly; an error means the log was tampered
// with or the configuration does not match.
func Replay(cfg MatchConfig, events []BallEvent) (*MatchState, error) {
	st := NewMatchState(cfg)
	for i, ev := range events {
		if err := st.apply(ev); err != nil {
			return nil, fmt.Errorf("replay event %d: %w", i, err)
		}
	}
	return st, nil
}

func validateConfig(cfg MatchConfig) error {
	if cfg.Team1 == "" || cfg.Team2 == "" {
		return invalidEventf("both team names are required")
	}
	if cfg.Team1 == cfg.Team2 {
		return invalidEventf("a team cannot play itself")
	}
	if cfg.TotalOvers < 1 {
		return invalidEventf("total overs must be at least 1")
	}
	if cfg.Striker == "" || cfg.NonStriker == "" {
		return invalidEventf("opening striker and non-striker are required")
	}
	if cfg.Striker == cfg.NonStriker {
		return invalidEventf("striker and non-striker are the same player")
	}
	if cfg.Bowler == "" {
		return invalidEventf("opening bowler is required")
	}
	if len(cfg.Team1Squad) > 0 {
		if !squadContains(cfg.Team1Squad, cfg.Striker) {
			return invalidEventf("striker %q is not in the %s squad", cfg.Striker, cfg.Team1)
		}
		if !squadContains(cfg.Team1Squad, cfg.NonStriker) {
			return invalidEventf("non-striker %q is not in the %s squad", cfg.NonStriker, cfg.Team1)
		}
	}
	if len(cfg.Team2Squad) > 0 && !squadContains(cfg.Team2Squad, cfg.Bowler) {
		return invalidEventf("bowler %q is not in the %s squad", cfg.Bowler, cfg.Team2)
	}
	return nil
}

// Apply runs one event through the rule set and, on success, fans the new
// state out to the store and sink.
func (e *Engine) Apply(ev BallEvent) (*ScoreUpdatePayload, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.st.apply(ev); err != nil {
		return nil, err
	}
	payload := buildPayload(e.st)
	e.persistLocked()
	if e.sink != nil {
		e.sink.Publish(e.st.Config.MatchID, payload)
	}
	return &payload, nil
}

// persistLocked snapshots under the lock and saves off the hot path.
func (e *Engine) persistLocked() {
	if e.store == nil {
		return
	}
	snap := cloneState(e.st)
	go func() {
		if err := e.store.Save(context.Background(), snap.Config.MatchID, snap); err != nil {
			log.Printf("scoring: save match %d: %v", snap.Config.MatchID, err)
		}
	}()
}

// State returns a deep copy of the current match state.
func (e *Engine) State() *MatchState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneState(e.st)
}

// Payload returns the current score-update payload without applying an event.
func (e *Engine) Payload() ScoreUpdatePayload {
	e.mu.Lock()
	defer e.mu.Unlock()
	return buildPayload(e.st)
}

// RecordRuns scores a ball hit for runs off the bat.
func (e *Engine) RecordRuns(runs int) (*ScoreUpdatePayload, error) {
	return e.Apply(BallEvent{Kind: EventRuns, Runs: runs})
}

// RecordExtra scores a wide, no-ball, bye or leg-bye worth totalRuns in all.
func (e *Engine) RecordExtra(kind ExtraKind, totalRuns int) (*ScoreUpdatePayload, error) {
	return e.Apply(BallEvent{Kind: EventExtra, Extra: kind, ExtraRuns: totalRuns})
}

// WicketParams carries the details of a dismissal.
type WicketParams struct {
	Kind          WicketKind `json:"kind" binding:"required"`
	Fielder       string     `json:"fielder"`
	NextBatter    string     `json:"next_batter"`
	DismissedSide string     `json:"dismissed_side"`
	ExtraRuns     int        `json:"extra_runs" binding:"min=0"`
}

// RecordWicket scores a dismissal, optionally with combination extras.
func (e *Engine) RecordWicket(p WicketParams) (*ScoreUpdatePayload, error) {
	return e.Apply(BallEvent{
		Kind:          EventWicket,
		Wicket:        p.Kind,
		Fielder:       p.Fielder,
		NextBatter:    p.NextBatter,
		DismissedSide: p.DismissedSide,
		ExtraRuns:     p.ExtraRuns,
	})
}

// SelectNextBowler supplies the bowler for the over about to start.
func (e *Engine) SelectNextBowler(name string) (*ScoreUpdatePayload, error) {
	return e.Apply(BallEvent{Kind: EventNextBowler, Bowler: name})
}

// SelectNextBatter fills the batting slot opened by a dismissal.
func (e *Engine) SelectNextBatter(name string) (*ScoreUpdatePayload, error) {
	return e.Apply(BallEvent{Kind: EventNextBatter, Striker: name})
}

// SetupSecondInnings supplies the chasing side's openers and the opening
// bowler after the innings break.
func (e *Engine) SetupSecondInnings(striker, nonStriker, bowler string) (*ScoreUpdatePayload, error) {
	return e.Apply(BallEvent{Kind: EventInningsSetup, Striker: striker, NonStriker: nonStriker, Bowler: bowler})
}

func cloneState(st *MatchState) *MatchState {
	// The state is plain data; a JSON round trip is a faithful deep copy.
	b, err := json.Marshal(st)
	if err != nil {
		panic(fmt.Sprintf("scoring: state not serializable: %v", err))
	}
	out := &MatchState{}
	if err := json.Unmarshal(b, out); err != nil {
		panic(fmt.Sprintf("scoring: state round trip: %v", err))
	}
	return out
}

// apply dispatches one event. The event is appended to the log only after
// the transition succeeds, so the log holds accepted events exclusively.
func (st *MatchState) apply(ev BallEvent) error {
	var err error
	switch ev.Kind {
	case EventRuns:
		err = st.applyRuns(ev)
	case EventExtra:
		err = st.applyExtra(ev)
	case EventWicket:
		err = st.applyWicket(ev)
	case EventNextBowler:
		err = st.applyNextBowler(ev)
	case EventNextBatter:
		err = st.applyNextBatter(ev)
	case EventInningsSetup:
		err = st.applyInningsSetup(ev)
	default:
		err = invalidEventf("unknown event kind %q", ev.Kind)
	}
	if err != nil {
		return err
	}
	st.Events = append(st.Events, ev)
	return nil
}

// ensureScoreable gates every delivery event. The BallInOver check is the
// hard rejection of a 7th ball in an over.
func (st *MatchState) ensureScoreable() error {
	if st.Ended {
		return invalidEventf("match is already completed")
	}
	if st.Pending != PendingNone {
		return invalidEventf("selection pending: %s", st.Pending)
	}
	if st.Bowler == "" {
		return invalidEventf("no bowler selected")
	}
	if st.Striker == "" || st.NonStriker == "" {
		return invalidEventf("both batters must be at the crease")
	}
	if st.Striker == st.NonStriker {
		return invalidEventf("striker and non-striker are the same player")
	}
	if st.BallInOver >= 6 {
		return invalidEventf("over already complete")
	}
	return nil
}

func (st *MatchState) swapStrike() {
	st.Striker, st.NonStriker = st.NonStriker, st.Striker
}

func (st *MatchState) applyRuns(ev BallEvent) error {
	if err := st.ensureScoreable(); err != nil {
		return err
	}
	switch ev.Runs {
	case 0, 1, 2, 3, 4, 6:
	default:
		return invalidEventf("%d is not a valid run value", ev.Runs)
	}

	b := st.stats().batter(st.Striker)
	b.Runs += ev.Runs
	b.Balls++
	switch ev.Runs {
	case 0:
		b.Dots++
	case 4:
		b.Fours++
	case 6:
		b.Sixes++
	}
	bw := st.stats().bowler(st.Bowler)
	bw.LegalBalls++
	bw.TotalBalls++
	bw.RunsConceded += ev.Runs

	sc := st.score()
	sc.Runs += ev.Runs
	sc.LegalBalls++
	st.BallInOver++

	st.BallLog = append(st.BallLog, BallRecord{
		Label:   st.ballLabel(),
		Batter:  st.Striker,
		Bowler:  st.Bowler,
		Text:    fmt.Sprintf("%s, %s", st.Striker, runsPhrase(ev.Runs)),
		Event:   ev,
		Inning:  st.Inning,
		IsLegal: true,
	})

	if st.chaseWonLocked() {
		return nil
	}
	if ev.Runs%2 == 1 {
		st.swapStrike()
	}
	st.closeDeliveryLocked(ev.Runs%2 == 0)
	return nil
}

func (st *MatchState) applyExtra(ev BallEvent) error {
	if err := st.ensureScoreable(); err != nil {
		return err
	}
	total := ev.ExtraRuns
	if total < 0 {
		return invalidEventf("extra runs cannot be negative")
	}

	sc := st.score()
	bw := st.stats().bowler(st.Bowler)

	switch ev.Extra {
	case ExtraWide:
		if total < 1 {
			total = 1
		}
		sc.Runs += total
		bw.TotalBalls++
		bw.RunsConceded += total
		st.logDelivery(ev, fmt.Sprintf("%s, %s", extraPhrase(ev.Extra), runsPhrase(total)), false)
		if st.chaseWonLocked() {
			return nil
		}
		// Runs beyond the mandatory one are run by the batters.
		if (total-1)%2 == 1 {
			st.swapStrike()
		}
	case ExtraNoBall:
		if total < 1 {
			total = 1
		}
		batRuns := total - 1
		b := st.stats().batter(st.Striker)
		b.Runs += batRuns
		switch batRuns {
		case 4:
			b.Fours++
		case 6:
			b.Sixes++
		}
		sc.Runs += total
		bw.TotalBalls++
		bw.RunsConceded += total
		st.logDelivery(ev, fmt.Sprintf("%s, %s", extraPhrase(ev.Extra), runsPhrase(total)), false)
		if st.chaseWonLocked() {
			return nil
		}
		if batRuns%2 == 1 {
			st.swapStrike()
		}
	case ExtraBye, ExtraLegBye:
		b := st.stats().batter(st.Striker)
		b.Balls++
		if total == 0 {
			b.Dots++
		}
		sc.Runs += total
		sc.LegalBalls++
		bw.LegalBalls++
		bw.TotalBalls++
		st.BallInOver++
		st.logDelivery(ev, fmt.Sprintf("%s, %s", extraPhrase(ev.Extra), runsPhrase(total)), true)
		if st.chaseWonLocked() {
			return nil
		}
		if total%2 == 1 {
			st.swapStrike()
		}
		st.closeDeliveryLocked(total%2 == 0)
	default:
		return invalidEventf("unknown extra kind %q", ev.Extra)
	}
	return nil
}

func (st *MatchState) applyWicket(ev BallEvent) error {
	if err := st.ensureScoreable(); err != nil {
		return err
	}
	switch ev.Wicket {
	case WicketBowled, WicketCaught, WicketRunOut, WicketHitWicket, WicketStumpOut,
		WicketWide, WicketNoBall, WicketBye, WicketLegBye:
	default:
		return invalidEventf("unknown wicket kind %q", ev.Wicket)
	}
	if ev.ExtraRuns < 0 {
		return invalidEventf("extra runs cannot be negative")
	}

	dismissed := st.Striker
	if ev.Wicket == WicketRunOut && ev.DismissedSide == DismissedNonStriker {
		dismissed = st.NonStriker
	}

	// A named replacement is validated up front so a rejection leaves the
	// state untouched.
	if ev.NextBatter != "" {
		if err := st.validateNewBatter(ev.NextBatter, dismissed); err != nil {
			return err
		}
	}

	sc := st.score()
	bw := st.stats().bowler(st.Bowler)
	legal := ev.countsAsLegalBall()
	extra := ev.ExtraRuns

	switch ev.Wicket {
	case WicketWide, WicketNoBall:
		if extra < 1 {
			extra = 1
		}
		sc.Runs += extra
		bw.RunsConceded += extra
		bw.TotalBalls++
	case WicketBye, WicketLegBye:
		sc.Runs += extra
		bw.LegalBalls++
		bw.TotalBalls++
	default:
		bw.LegalBalls++
		bw.TotalBalls++
	}
	if legal {
		sc.LegalBalls++
		st.BallInOver++
		b := st.stats().batter(st.Striker)
		b.Balls++
		if extra == 0 {
			b.Dots++
		}
	}

	sc.Wickets++
	st.Dismissed[dismissed] = true
	bs := st.stats().batter(dismissed)
	bs.IsDismissed = true
	bs.DismissalType = dismissalText(ev.Wicket, ev.Fielder)
	if bowlerGetsCredit(ev.Wicket) {
		bw.Wickets++
	}

	st.BallLog = append(st.BallLog, BallRecord{
		Label:   st.ballLabel(),
		Batter:  dismissed,
		Bowler:  st.Bowler,
		Text:    fmt.Sprintf("WICKET! %s %s", dismissed, bs.DismissalType),
		Event:   ev,
		Inning:  st.Inning,
		IsLegal: legal,
	})

	// Seat the replacement, or open the slot and gate scoring on the
	// selection. At ten down no replacement exists.
	if dismissed == st.Striker {
		st.Striker = ev.NextBatter
	} else {
		st.NonStriker = ev.NextBatter
	}
	if ev.NextBatter != "" {
		st.stats().batter(ev.NextBatter)
	}

	if st.chaseWonLocked() {
		return nil
	}
	if sc.Wickets >= 10 || sc.LegalBalls >= st.Config.TotalOvers*6 {
		st.completeInnings()
		return nil
	}
	if ev.NextBatter == "" {
		st.Pending = PendingNextBatter
	}
	if legal {
		// Bye and leg-bye runs carry their parity into the end-of-over
		// rotation; every other dismissal counts as a scoreless ball.
		lastBallEven := true
		if ev.Wicket == WicketBye || ev.Wicket == WicketLegBye {
			lastBallEven = extra%2 == 0
		}
		st.closeDeliveryLocked(lastBallEven)
	}
	return nil
}

// bowlerGetsCredit excludes all run-out style dismissals from the bowler's
// wicket column.
func bowlerGetsCredit(kind WicketKind) bool {
	switch kind {
	case WicketRunOut, WicketBye, WicketLegBye:
		return false
	}
	return true
}

func (st *MatchState) validateNewBatter(name, dismissed string) error {
	if st.Dismissed[name] {
		return invalidEventf("%s is already dismissed", name)
	}
	if name == st.Striker || name == st.NonStriker {
		if name != dismissed {
			return invalidEventf("%s is already at the crease", name)
		}
		return invalidEventf("%s cannot replace themselves", name)
	}
	if squad := st.battingSquad(); len(squad) > 0 && !squadContains(squad, name) {
		return invalidEventf("%s is not in the %s squad", name, st.BattingTeam())
	}
	return nil
}

// closeDeliveryLocked finishes a legal ball that did not end the match: it
// completes the innings at the overs limit, or the over at six legal balls.
// lastBallEven drives the end-of-over strike swap.
func (st *MatchState) closeDeliveryLocked(lastBallEven bool) {
	sc := st.score()
	if sc.LegalBalls >= st.Config.TotalOvers*6 {
		st.completeInnings()
		return
	}
	if st.BallInOver < 6 {
		return
	}
	if lastBallEven {
		st.swapStrike()
	}
	st.LastOverBowler[st.Inning] = st.Bowler
	st.logNote(fmt.Sprintf("End of over %d (%s bowling)", st.Over+1, st.Bowler))
	st.Over++
	st.BallInOver = 0
	st.Bowler = ""
	if st.Pending == PendingNone {
		st.Pending = PendingNextBowler
	}
}

// chaseWonLocked ends the match on the spot once the chasing side passes the
// target, bypassing over and innings bookkeeping for the rest of the over.
func (st *MatchState) chaseWonLocked() bool {
	if st.Inning != 2 || st.Ended || st.score().Runs < st.Target {
		return false
	}
	st.finishMatch(fmt.Sprintf("%s won by %d wickets", st.Config.Team2, 10-st.score().Wickets))
	return true
}

func (st *MatchState) completeInnings() {
	sc := st.score()
	if st.Inning == 1 {
		st.logNote(fmt.Sprintf("Innings complete: %s %d/%d (%s overs)",
			st.Config.Team1, sc.Runs, sc.Wickets, OversString(sc.LegalBalls)))
		st.Target = sc.Runs + 1
		st.Inning = 2
		st.Over = 0
		st.BallInOver = 0
		st.Striker = ""
		st.NonStriker = ""
		st.Bowler = ""
		st.Dismissed = make(map[string]bool)
		st.BallLog = nil
		st.Pending = PendingSecondInnings
		st.logNote(fmt.Sprintf("%s need %d to win", st.Config.Team2, st.Target))
		return
	}

	// Second innings closed short of the target: defending side wins on the
	// deficit, or the scores are level and the match is tied.
	deficit := st.Target - 1 - sc.Runs
	if deficit == 0 {
		st.finishMatch("Match tied")
		return
	}
	st.finishMatch(fmt.Sprintf("%s won by %d runs", st.Config.Team1, deficit))
}

// finishMatch is idempotent; completion side effects run exactly once.
func (st *MatchState) finishMatch(result string) {
	if st.ResultProcessed {
		return
	}
	st.ResultProcessed = true
	st.Ended = true
	st.Result = result
	st.Pending = PendingNone
	st.logNote(result)
}

func (st *MatchState) applyNextBowler(ev BallEvent) error {
	if st.Ended {
		return invalidEventf("match is already completed")
	}
	if st.Pending != PendingNextBowler {
		return invalidEventf("no bowler selection is pending")
	}
	name := ev.Bowler
	if name == "" {
		return invalidEventf("bowler name is required")
	}
	if name == st.LastOverBowler[st.Inning] {
		return invalidEventf("%s bowled the previous over and cannot bowl consecutive overs", name)
	}
	if squad := st.bowlingSquad(); len(squad) > 0 && !squadContains(squad, name) {
		return invalidEventf("%s is not in the %s squad", name, st.BowlingTeam())
	}
	st.Bowler = name
	st.Pending = PendingNone
	return nil
}

func (st *MatchState) applyNextBatter(ev BallEvent) error {
	if st.Ended {
		return invalidEventf("match is already completed")
	}
	if st.Pending != PendingNextBatter {
		return invalidEventf("no batter selection is pending")
	}
	name := ev.Striker
	if name == "" {
		return invalidEventf("batter name is required")
	}
	if err := st.validateNewBatter(name, ""); err != nil {
		return err
	}
	if st.Striker == "" {
		st.Striker = name
	} else {
		st.NonStriker = name
	}
	st.stats().batter(name)
	// A wicket on the last ball of an over leaves the bowler slot open too.
	if st.Bowler == "" {
		st.Pending = PendingNextBowler
	} else {
		st.Pending = PendingNone
	}
	return nil
}

func (st *MatchState) applyInningsSetup(ev BallEvent) error {
	if st.Ended {
		return invalidEventf("match is already completed")
	}
	if st.Pending != PendingSecondInnings {
		return invalidEventf("second innings setup is not pending")
	}
	if ev.Striker == "" || ev.NonStriker == "" || ev.Bowler == "" {
		return invalidEventf("striker, non-striker and bowler are all required")
	}
	if ev.Striker == ev.NonStriker {
		return invalidEventf("striker and non-striker are the same player")
	}
	if squad := st.battingSquad(); len(squad) > 0 {
		if !squadContains(squad, ev.Striker) {
			return invalidEventf("%s is not in the %s squad", ev.Striker, st.BattingTeam())
		}
		if !squadContains(squad, ev.NonStriker) {
			return invalidEventf("%s is not in the %s squad", ev.NonStriker, st.BattingTeam())
		}
	}
	if squad := st.bowlingSquad(); len(squad) > 0 && !squadContains(squad, ev.Bowler) {
		return invalidEventf("%s is not in the %s squad", ev.Bowler, st.BowlingTeam())
	}
	st.Striker = ev.Striker
	st.NonStriker = ev.NonStriker
	st.Bowler = ev.Bowler
	st.stats().batter(ev.Striker)
	st.stats().batter(ev.NonStriker)
	st.Pending = PendingNone
	return nil
}

func (st *MatchState) logDelivery(ev BallEvent, text string, legal bool) {
	st.BallLog = append(st.BallLog, BallRecord{
		Label:   st.ballLabel(),
		Batter:  st.Striker,
		Bowler:  st.Bowler,
		Text:    text,
		Event:   ev,
		Inning:  st.Inning,
		IsLegal: legal,
	})
}

func (st *MatchState) logNote(text string) {
	st.BallLog = append(st.BallLog, BallRecord{
		Label:  st.ballLabel(),
		Text:   text,
		Inning: st.Inning,
	})
}

package scoring

import (
	"fmt"
	"strings"
)

// EventKind tags the variants of the ball-by-ball event log.
type EventKind string

const (
	EventRuns         EventKind = "runs"
	EventExtra        EventKind = "extra"
	EventWicket       EventKind = "wicket"
	EventNextBowler   EventKind = "next_bowler"
	EventNextBatter   EventKind = "next_batter"
	EventInningsSetup EventKind = "innings_setup"
)

// ExtraKind identifies a delivery not scored off the bat.
type ExtraKind string

const (
	ExtraWide   ExtraKind = "wide"
	ExtraNoBall ExtraKind = "no_ball"
	ExtraBye    ExtraKind = "bye"
	ExtraLegBye ExtraKind = "leg_bye"
)

// WicketKind identifies a dismissal. The four combination kinds award extra
// runs on the same delivery; wide_wicket and no_ball_wicket do not count as
// legal balls.
type WicketKind string

const (
	WicketBowled    WicketKind = "bowled"
	WicketCaught    WicketKind = "caught"
	WicketRunOut    WicketKind = "run_out"
	WicketHitWicket WicketKind = "hit_wicket"
	WicketStumpOut  WicketKind = "stump_out"

	WicketWide   WicketKind = "wide_wicket"
	WicketNoBall WicketKind = "no_ball_wicket"
	WicketBye    WicketKind = "bye_wicket"
	WicketLegBye WicketKind = "leg_bye_wicket"
)

// DismissedStriker / DismissedNonStriker nominate which end a run-out removed.
const (
	DismissedStriker    = "striker"
	DismissedNonStriker = "non_striker"
)

// BallEvent is one entry of the append-only, replayable event log. Kind
// selects the variant; only the fields of that variant are meaningful.
type BallEvent struct {
	Kind EventKind `json:"kind"`

	// EventRuns
	Runs int `json:"runs,omitempty"`

	// EventExtra
	Extra     ExtraKind `json:"extra,omitempty"`
	ExtraRuns int       `json:"extra_runs,omitempty"` // also combo-wicket extras

	// EventWicket
	Wicket        WicketKind `json:"wicket,omitempty"`
	Fielder       string     `json:"fielder,omitempty"`
	NextBatter    string     `json:"next_batter,omitempty"`
	DismissedSide string     `json:"dismissed_side,omitempty"`

	// EventNextBowler / EventNextBatter / EventInningsSetup
	Bowler     string `json:"bowler,omitempty"`
	Striker    string `json:"striker,omitempty"`
	NonStriker string `json:"non_striker,omitempty"`
}

// countsAsLegalBall reports whether the delivery advances the 6-ball over.
func (e BallEvent) countsAsLegalBall() bool {
	switch e.Kind {
	case EventRuns:
		return true
	case EventExtra:
		return e.Extra == ExtraBye || e.Extra == ExtraLegBye
	case EventWicket:
		return e.Wicket != WicketWide && e.Wicket != WicketNoBall
	}
	return false
}

func runsPhrase(n int) string {
	switch n {
	case 0:
		return "no run"
	case 1:
		return "1 run"
	case 4:
		return "FOUR"
	case 6:
		return "SIX"
	default:
		return fmt.Sprintf("%d runs", n)
	}
}

func extraPhrase(kind ExtraKind) string {
	switch kind {
	case ExtraWide:
		return "wide"
	case ExtraNoBall:
		return "no ball"
	case ExtraBye:
		return "bye"
	case ExtraLegBye:
		return "leg bye"
	}
	return string(kind)
}

// dismissalText is the scorecard annotation for a dismissal (e.g. "caught (Jones)").
func dismissalText(kind WicketKind, fielder string) string {
	var base string
	switch kind {
	case WicketBowled:
		base = "bowled"
	case WicketCaught:
		base = "caught"
	case WicketRunOut:
		base = "run out"
	case WicketHitWicket:
		base = "hit wicket"
	case WicketStumpOut:
		base = "stumped"
	case WicketWide:
		base = "stumped (wide)"
	case WicketNoBall:
		base = "run out (no ball)"
	case WicketBye:
		base = "run out (bye)"
	case WicketLegBye:
		base = "run out (leg bye)"
	default:
		base = strings.ReplaceAll(string(kind), "_", " ")
	}
	if fielder != "" {
		return fmt.Sprintf("%s (%s)", base, fielder)
	}
	return base
}

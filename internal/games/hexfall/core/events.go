package core

// Event is something the engine reports to UI or audio collaborators.
type Event interface {
	hexEvent()
}

// ScoreEvent is a score delta shown as a floating label at At.
type ScoreEvent struct {
	Delta    int
	At       Vec2
	Floating bool // Award for falling blocks rather than the match itself
}

func (ScoreEvent) hexEvent() {}

// MultiplierEvent reports the multiplier value and the remaining decay
// time as a fraction of the full decay time.
type MultiplierEvent struct {
	Value    int
	Fraction float64
}

func (MultiplierEvent) hexEvent() {}

// SpawnCountdownEvent reports a busy spawn point's progress.
type SpawnCountdownEvent struct {
	Point     int
	Type      BlockType
	Remaining float64
	Progress  float64 // 0 at bind, 1 when the block appears
}

func (SpawnCountdownEvent) hexEvent() {}

// SpawnedEvent is sent when a spawn point instantiates a block.
type SpawnedEvent struct {
	Point int
	Node  NodeID
	Type  BlockType
}

func (SpawnedEvent) hexEvent() {}

// TimeLimitEvent reports whole seconds remaining on a timed level.
type TimeLimitEvent struct {
	Remaining int
}

func (TimeLimitEvent) hexEvent() {}

// AttachEvent is sent when a free block bonds to the structure.
type AttachEvent struct {
	Node  NodeID
	Links int
}

func (AttachEvent) hexEvent() {}

// MatchResolvedEvent carries the full outcome of a match.
type MatchResolvedEvent struct {
	Outcome MatchOutcome
}

func (MatchResolvedEvent) hexEvent() {}

// GameOverReason explains why a level ended.
type GameOverReason uint8

const (
	ReasonNone GameOverReason = iota
	ReasonOverflow
	ReasonTimeUp
	ReasonFatal
)

// String returns a human-readable reason.
func (r GameOverReason) String() string {
	switch r {
	case ReasonOverflow:
		return "structure reached the rim"
	case ReasonTimeUp:
		return "time up"
	case ReasonFatal:
		return "engine error"
	default:
		return "none"
	}
}

// GameOverEvent carries the final result of a level.
type GameOverEvent struct {
	Score      int
	Stars      int
	Thresholds [3]int
	Reason     GameOverReason
}

func (GameOverEvent) hexEvent() {}

// EventSink receives engine events.
type EventSink interface {
	Emit(e Event)
}

// EventLog is an EventSink that buffers events until drained once per frame.
type EventLog struct {
	events []Event
}

// Emit appends an event.
func (l *EventLog) Emit(e Event) {
	l.events = append(l.events, e)
}

// Drain returns and clears the buffered events.
func (l *EventLog) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}

// Len returns the number of buffered events.
func (l *EventLog) Len() int {
	return len(l.events)
}

// discard is the sink used when none is configured.
type discard struct{}

func (discard) Emit(Event) {}

func sinkOrDiscard(s EventSink) EventSink {
	if s == nil {
		return discard{}
	}
	return s
}

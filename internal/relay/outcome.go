package relay

// Outcome tags what happened to one relay event. The wire behavior toward
// the client is unchanged (drops stay silent), but handlers return an
// explicit outcome so behavior is testable and distinguishable in logs.
type Outcome int

const (
	// OutcomeDelivered means at least one of the receiver's live
	// connections got the push.
	OutcomeDelivered Outcome = iota

	// OutcomeStoredOnly means the event was durably persisted but the
	// receiver had no live connections; delivery falls back to a later
	// history fetch.
	OutcomeStoredOnly

	// OutcomeDropped means the event produced no durable record and no
	// push. Result.Reason says why.
	OutcomeDropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeStoredOnly:
		return "stored_only"
	case OutcomeDropped:
		return "dropped"
	}
	return "unknown"
}

// Result describes the handling of one inbound event.
type Result struct {
	Outcome Outcome
	// Reason is set for dropped events.
	Reason string
	// Pushed is the number of connections the event was written to,
	// sender echoes included.
	Pushed int
}

func delivered(pushed int) Result {
	return Result{Outcome: OutcomeDelivered, Pushed: pushed}
}

func storedOnly(pushed int) Result {
	return Result{Outcome: OutcomeStoredOnly, Pushed: pushed}
}

func dropped(reason string) Result {
	return Result{Outcome: OutcomeDropped, Reason: reason}
}

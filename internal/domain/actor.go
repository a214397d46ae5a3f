package domain

// ActorKind tags who is calling a lifecycle operation
type ActorKind uint8

const (
	ActorRequester ActorKind = iota + 1
	ActorParty
	ActorSystem
)

// Actor is the caller identity asserted by the upstream auth layer.
// Only the field matching Kind is meaningful.
type Actor struct {
	Kind  ActorKind
	Email string // ActorRequester
	Party Party  // ActorParty
}

// RequesterActor builds a requester identity
func RequesterActor(email string) Actor {
	return Actor{Kind: ActorRequester, Email: NormalizeEmail(email)}
}

// PartyActor builds a party identity
func PartyActor(p Party) Actor {
	return Actor{Kind: ActorParty, Party: p}
}

// SystemActor is used by scheduled jobs
func SystemActor() Actor {
	return Actor{Kind: ActorSystem}
}

// TimelineLabel returns how the actor is recorded in the timeline
func (a Actor) TimelineLabel() string {
	switch a.Kind {
	case ActorRequester:
		return ActorLabelRequester
	case ActorParty:
		return a.Party.String()
	case ActorSystem:
		return ActorLabelSystem
	default:
		return "Unknown"
	}
}

// Timeline actor labels for non-party actors
const (
	ActorLabelRequester = "Requester"
	ActorLabelSystem    = "System"
)

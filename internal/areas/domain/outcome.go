package domain

type OutcomeKind int

const (
	OutcomeCreated OutcomeKind = iota + 1
	OutcomeAlreadyExists
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already_exists"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CreateOutcome is the classified result of one create attempt. Only the
// field matching Kind is meaningful.
type CreateOutcome struct {
	Kind     OutcomeKind
	Seed     AreaSeed
	ServerID string
	Reason   string
	Err      error
}

func Created(seed AreaSeed, serverID string) CreateOutcome {
	return CreateOutcome{Kind: OutcomeCreated, Seed: seed, ServerID: serverID}
}

func AlreadyExists(seed AreaSeed, reason string) CreateOutcome {
	return CreateOutcome{Kind: OutcomeAlreadyExists, Seed: seed, Reason: reason}
}

func Failed(seed AreaSeed, err error) CreateOutcome {
	return CreateOutcome{Kind: OutcomeFailed, Seed: seed, Err: err}
}

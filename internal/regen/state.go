package regen

// State is a step of the regeneration loop for one section.
type State int

const (
	Idle State = iota
	Generating
	Validating
	Retrying
	Accepted
	Exhausted
)

var stateNames = [...]string{
	Idle:       "idle",
	Generating: "generating",
	Validating: "validating",
	Retrying:   "retrying",
	Accepted:   "accepted",
	Exhausted:  "exhausted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s ends the loop with a usable section.
func (s State) Terminal() bool {
	return s == Accepted || s == Exhausted
}

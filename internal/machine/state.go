package machine

import "fmt"

// State identifies the machine's operating mode. Exactly one state is
// current at any time; transitions between them are evaluated once per
// tick by the engine.
type State int

const (
	StateIdle State = iota
	StateActive
	StateOverheating
	StateRecovery
)

var stateNames = map[State]string{
	StateIdle:        "IDLE",
	StateActive:      "ACTIVE",
	StateOverheating: "OVERHEATING",
	StateRecovery:    "RECOVERY",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalJSON renders the state as its name so API consumers never see
// the internal ordinal.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

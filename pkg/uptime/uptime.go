package uptime

// State is a monitor or page availability state.
type State string

const (
	StateUp      State = "UP"
	StateDown    State = "DOWN"
	StateUnknown State = "UNKNOWN"
)

// Monitor is one probed endpoint on a status page.
type Monitor struct {
	Name   string `json:"name"`
	Status State  `json:"status"`
}

// PageStatus is the aggregated view of one status page.
type PageStatus struct {
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Status   State     `json:"status"`
	Monitors []Monitor `json:"monitors"`
}

// Aggregate folds monitor states into a page state: DOWN wins over
// everything, any UNKNOWN monitor makes the page UNKNOWN, and a page with
// no monitors is UNKNOWN.
func Aggregate(monitors []Monitor) State {
	if len(monitors) == 0 {
		return StateUnknown
	}
	state := StateUp
	for _, m := range monitors {
		switch m.Status {
		case StateDown:
			return StateDown
		case StateUnknown:
			state = StateUnknown
		}
	}
	return state
}

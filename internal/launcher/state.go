package launcher

type State int

const (
	NOT_STARTED State = iota
	RUNNING
	TERMINATED
)

func (state State) String() string {
	switch state {
	case NOT_STARTED:
		return "not started"
	case RUNNING:
		return "running"
	case TERMINATED:
		return "terminated"
	}
	return "unknown"
}

package live

// State is the lifecycle phase of a voice session.
type State string

const (
	// StateDisconnected is the idle state, before Connect or after Close.
	StateDisconnected State = "disconnected"

	// StateConnecting covers microphone acquisition, the websocket dial
	// and the setup handshake.
	StateConnecting State = "connecting"

	// StateConnected means audio is streaming in both directions.
	StateConnected State = "connected"

	// StateError is terminal for the session instance. A new session must
	// be created to retry.
	StateError State = "error"
)

func (s State) String() string { return string(s) }

// validTransition reports whether a session may move from one state to
// another. Close forces disconnected from anywhere, which is handled by
// the session directly rather than here.
func validTransition(from, to State) bool {
	switch from {
	case StateDisconnected:
		return to == StateConnecting
	case StateConnecting:
		return to == StateConnected || to == StateError || to == StateDisconnected
	case StateConnected:
		return to == StateDisconnected || to == StateError
	default:
		return false
	}
}

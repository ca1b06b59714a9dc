package featureview

// Phase is the loading state of a feature card.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseStackedLoading
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseStackedLoading:
		return "stacked_loading"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

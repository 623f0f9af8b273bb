package session

// Status is the outcome of reading the stored token.
type Status int

const (
	Found Status = iota
	NotFound
	StoreUnavailable
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case StoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// Lookup keeps "no token" and "store failed" apart. Err is only set for
// StoreUnavailable.
type Lookup struct {
	Status Status
	Token  string
	Err    error
}

// OK reports whether a token was found.
func (l Lookup) OK() bool { return l.Status == Found }

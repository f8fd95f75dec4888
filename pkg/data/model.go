package data

// Status tracks a chapter through the pipeline. It only moves forward,
// except that any non-terminal state may drop to StatusFailed.
type Status int

const (
	StatusPending Status = iota
	StatusFetched
	StatusCleaned
	StatusTranslating
	StatusTranslated
	StatusDelivered
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFetched:
		return "fetched"
	case StatusCleaned:
		return "cleaned"
	case StatusTranslating:
		return "translating"
	case StatusTranslated:
		return "translated"
	case StatusDelivered:
		return "delivered"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

type Novel struct {
	ID          string
	Title       string
	Author      string
	Description string
	CoverURL    string
	Language    string
	SourceURL   string
	Tags        []string
	Chapters    []*Chapter
}

type Chapter struct {
	Index      int // 0-based, sole ordering key
	Title      string
	URL        string
	Raw        string
	Cleaned    string
	Translated string
	Status     Status
	Err        error
}

// Advance moves the chapter to a later status. Backward moves are ignored
// so a stale update can never regress the state machine; StatusFailed is
// always reachable and terminal.
func (c *Chapter) Advance(s Status) {
	if c.Status == StatusFailed {
		return
	}
	if s == StatusFailed || s > c.Status {
		c.Status = s
	}
}

// Fail marks the chapter failed with the given cause.
func (c *Chapter) Fail(err error) {
	c.Err = err
	c.Status = StatusFailed
}

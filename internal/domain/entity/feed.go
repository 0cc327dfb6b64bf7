package entity

// FeedView is what a screen shows for one feed. A stale view still carries the last good list.
type FeedView struct {
	Kind     FeedKind   `json:"kind"`
	Products []*Product `json:"products"`
	Stale    bool       `json:"stale"`
	Error    string     `json:"error,omitempty"`
}

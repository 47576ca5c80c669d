package domain

import (
	"fmt"
	"strings"
)

// Status is the viewer's watch state for a title.
type Status string

const (
	StatusWatching  Status = "watching"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusPlanned   Status = "planned"
	StatusDropped   Status = "dropped"
)

var statuses = []Status{StatusWatching, StatusCompleted, StatusPaused, StatusPlanned, StatusDropped}

func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range statuses {
		if v == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown anime status %q", s)
}

func (s Status) String() string {
	return string(s)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Info is one catalog entry.
type Info struct {
	Title  string `json:"title"`
	Score  int    `json:"score"`
	Status Status `json:"status"`
}

func (i Info) String() string {
	return fmt.Sprintf("Info{title=%q score=%d status=%s}", i.Title, i.Score, i.Status)
}

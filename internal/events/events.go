// Package events defines the messages a fetch publishes while it runs.
package events

import "time"

// Publisher receives fetch events synchronously. A nil Publisher drops them.
type Publisher func(msg any)

// Publish is nil-safe.
func (p Publisher) Publish(msg any) {
	if p != nil {
		p(msg)
	}
}

type FetchStartedMsg struct {
	FetchID  string
	Filename string
	URL      string
	DestPath string
}

// AttemptFailedMsg is sent when an attempt fails and another one follows.
type AttemptFailedMsg struct {
	FetchID  string
	Filename string
	Attempt  int
	Protocol string
	Err      error
}

type FetchCompleteMsg struct {
	FetchID  string
	Filename string
	DestPath string
	Attempt  int
	Protocol string
	Bytes    int64
	Elapsed  time.Duration
}

type FetchErrorMsg struct {
	FetchID  string
	Filename string
	Err      error
}

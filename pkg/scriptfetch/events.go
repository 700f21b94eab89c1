package scriptfetch

import "scriptfetch/internal/events"

// Re-exported event types for consumers.
type FetchStartedMsg = events.FetchStartedMsg
type AttemptFailedMsg = events.AttemptFailedMsg
type FetchCompleteMsg = events.FetchCompleteMsg
type FetchErrorMsg = events.FetchErrorMsg

package tui

import "time"

// Message types for Bubble Tea update loop.

// tickMsg fires at the refresh cadence. Its handler re-arms the next tick,
// so a stalled loop produces exactly one catch-up tick with the deadline
// reset from "now" rather than a burst of missed intervals.
type tickMsg time.Time

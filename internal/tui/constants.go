package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// defaultTickInterval drives the periodic refresh cadence when the
	// config carries no override.
	defaultTickInterval = 250 * time.Millisecond

	// timestampLayout is the activity log's HH:MM:SS prefix.
	timestampLayout = "15:04:05"

	// Body column split, as percentages of the full width. The remainder
	// goes to the logs column.
	leftColumnPercent   = 40
	centerColumnPercent = 30

	// Fallback dimensions used until the first resize message arrives.
	defaultViewWidth  = 100
	defaultViewHeight = 30

	// minBodyHeight keeps the panels from collapsing on tiny terminals.
	minBodyHeight = 6

	// panelChromeWidth and panelChromeHeight are the border cells around a
	// panel's content. Keep in sync with the lipgloss frame in view.go.
	panelChromeWidth  = 2
	panelChromeHeight = 2

	// percentScale converts between 0..100 percentages and 0..1 ratios.
	percentScale = 100.0
)

// Color palette (256-color codes) shared by the view helpers.
const (
	colorGreen  = "46"
	colorRed    = "196"
	colorYellow = "220"
	colorCyan   = "51"
	colorPink   = "201"
	colorGray   = "240"
	colorBlack  = "16"
	colorWhite  = "7"
)

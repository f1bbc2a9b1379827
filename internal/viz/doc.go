// Package viz renders pendulum runs in the terminal.
//
//   - [Report], [SweepTable], [ComparisonReport]: lipgloss summaries
//   - [PlotSeries]: asciigraph line charts
//   - [Replay]: Bubble Tea animation of a finished trajectory
//   - [Canvas]: braille sub-pixel canvas used by the replay
//
// # Replay keys
//
//	Space - Pause/resume
//	R     - Restart from t = 0
//	[ ]   - Seek back/forward one second
//	+ -   - Change playback speed
//	T     - Cycle colour themes
//	G     - Toggle GIF recording
//	?     - Show help
//
// Recordings are written to Replay.GIFPath.
package viz

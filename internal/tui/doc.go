// Package tui provides terminal user interface components and utilities.
//
// It handles:
//   - Splog, the structured console/file logger every command writes through
//   - Interactive prompts (confirmation, selection, the traverse y/N/q/yq
//     answer) built on bubbletea and survey
//   - Rendering the branch dependency forest with edge colors
package tui

package models

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode is the output mode of a command
type Mode string

const (
	ModeTUI  Mode = "tui"
	ModeJSON Mode = "json"
)

// minBodyHeight keeps a few table rows visible on tiny terminals
const minBodyHeight = 3

// Screen holds what every full-screen liora view tracks about its terminal:
// the command context, the window size and whether the user asked to leave.
type Screen struct {
	ctx     context.Context
	width   int
	height  int
	leaving bool
}

func NewScreen(ctx context.Context) Screen {
	if ctx == nil {
		ctx = context.Background()
	}
	return Screen{ctx: ctx}
}

func (s Screen) Context() context.Context {
	return s.ctx
}

func (s Screen) Size() (width, height int) {
	return s.width, s.height
}

// BodyHeight is the height left for content once chrome lines are drawn
func (s Screen) BodyHeight(chrome int) int {
	return max(minBodyHeight, s.height-chrome)
}

func (s Screen) Leaving() bool {
	return s.leaving
}

func (s *Screen) Leave() {
	s.leaving = true
}

// Update records window sizes and turns ctrl+c or a cancelled command
// context into tea.Quit. Views bind "q" themselves since prompts take text.
func (s *Screen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || s.ctx.Err() != nil {
			s.Leave()
			return tea.Quit
		}
	}
	return nil
}

package cli

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Pipeline is the generate pipeline's shape: it reports each phase's
// completion via advance, then returns the final analysis report (or an
// error). Run drives it in a background goroutine and feeds progress back
// into the Bubbletea program via Program.Send.
type Pipeline func(advance func(Phase)) DoneMsg

// Run starts the progress display and runs pipeline to completion,
// returning the pipeline's DoneMsg once the program exits (either the
// pipeline finished or the user quit early).
func Run(pipeline Pipeline) (DoneMsg, error) {
	model := NewModel()
	p := tea.NewProgram(model)

	resultCh := make(chan DoneMsg, 1)
	go func() {
		msg := pipeline(func(ph Phase) {
			p.Send(PhaseDoneMsg{Phase: ph})
		})
		p.Send(msg)
		resultCh <- msg
	}()

	if _, err := p.Run(); err != nil {
		return DoneMsg{}, err
	}
	return <-resultCh, nil
}

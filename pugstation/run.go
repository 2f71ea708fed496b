package pugstation

import (
	"fmt"

	"github.com/valerio/go-pugstation/pugstation/backend"
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/timing"
)

// Run drives the machine from a frontend: it executes batch instructions,
// hands a snapshot to the backend and applies the actions it returns. It
// stops when the backend asks to quit or the machine hits a fatal error.
func (e *Emulator) Run(b backend.Backend, batch int, limiter timing.Limiter) error {
	if batch <= 0 {
		return fmt.Errorf("invalid batch size %d", batch)
	}

	for {
		switch e.state {
		case debug.DebuggerRunning:
			if err := e.RunInstructions(batch); err != nil {
				e.reportFatal(b, err)
				return err
			}
		case debug.DebuggerStepInstruction:
			if err := e.RunNextInstruction(); err != nil {
				e.reportFatal(b, err)
				return err
			}
			e.state = debug.DebuggerPaused
		}
		limiter.Wait()

		actions, err := b.Update(e.ExtractDebugData())
		if err != nil {
			return fmt.Errorf("backend update: %w", err)
		}

		for _, act := range actions {
			switch act {
			case backend.ActionQuit:
				e.logger.Info("Quit requested", "instructions", e.cpu.Instructions())
				return nil
			case backend.ActionPauseToggle:
				e.togglePause(limiter)
			case backend.ActionStep:
				if e.state == debug.DebuggerPaused {
					e.state = debug.DebuggerStepInstruction
				}
			}
		}
	}
}

func (e *Emulator) togglePause(limiter timing.Limiter) {
	if e.state == debug.DebuggerRunning {
		e.state = debug.DebuggerPaused
		e.logger.Info("Paused", "pc", fmt.Sprintf("0x%08X", e.cpu.PC()))
		return
	}
	e.state = debug.DebuggerRunning
	limiter.Reset()
	e.logger.Info("Resumed")
}

// reportFatal shows the final state to the frontend before the error is
// returned, so monitors can display where the machine stopped.
func (e *Emulator) reportFatal(b backend.Backend, err error) {
	e.logger.Error("Emulation stopped", "error", err,
		"pc", fmt.Sprintf("0x%08X", e.cpu.CurrentPC()))
	e.state = debug.DebuggerPaused
	if _, uerr := b.Update(e.ExtractDebugData()); uerr != nil {
		e.logger.Debug("Final backend update failed", "error", uerr)
	}
}

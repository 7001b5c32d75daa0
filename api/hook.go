package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/psxdecomp/core"
	"github.com/sarchlab/psxdecomp/program"
)

// PassLogger is a hook that traces every pass result the driver reports.
type PassLogger struct{}

// Func logs the hook context.
func (PassLogger) Func(ctx sim.HookCtx) {
	result, ok := ctx.Detail.(PassResult)
	if !ok {
		return
	}

	lines := 0
	if p, ok := ctx.Item.(*program.Program); ok && p != nil {
		lines = p.Len()
	}

	// Round results belong to the whole fixed-point loop.
	pass := string(result.Stage)
	if pass == "" {
		pass = "fixed-point"
	}

	core.Trace(pass, ctx.Pos.Name,
		"round", result.Round,
		"changed", result.Changed,
		"lines", lines)
}

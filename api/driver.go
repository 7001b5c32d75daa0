// Package api runs the decompiler pipeline over a buffer of instruction
// words.
package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/psxdecomp/core"
	"github.com/sarchlab/psxdecomp/instr"
	"github.com/sarchlab/psxdecomp/passes"
	"github.com/sarchlab/psxdecomp/program"
)

// HookPosPassApplied marks the completion of a single pass invocation.
var HookPosPassApplied = &sim.HookPos{Name: "Pass Applied"}

// HookPosRoundDone marks the end of a fixed-point round.
var HookPosRoundDone = &sim.HookPos{Name: "Round Done"}

// ErrNoFixedPoint is returned when the rewrite loop keeps changing the
// program beyond the round bound.
var ErrNoFixedPoint = errors.New("rewrite passes did not reach a fixed point")

// Stage names a step of the pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageDecode          Stage = "decode"
	StageGenericSimplify Stage = "generic-simplify"
	StageTargetPeephole  Stage = "target-peephole"
	StageSnapshot        Stage = "snapshot"
	StageDelaySlots      Stage = "delay-slots"
	StageStructural      Stage = "structural-simplify"
	StageStructurize     Stage = "structurize"
	StageExpression      Stage = "expression-peephole"
)

// PassResult is the hook detail for HookPosPassApplied and
// HookPosRoundDone. Stage is empty for the latter.
type PassResult struct {
	Stage   Stage
	Round   int
	Changed bool
}

// Driver decodes a buffer and rewrites it into pseudo-code.
type Driver struct {
	sim.HookableBase

	name          string
	isa           *core.ISA
	startPosition uint32
	loadBias      uint32
	skipAll       bool
	maxRounds     int
}

// Name returns the name of the driver.
func (d *Driver) Name() string {
	return d.name
}

// Process decodes buf and runs the pipeline over it. Invariant
// violations raised by a pass are returned as *instr.InvariantError with
// the stage filled in.
func (d *Driver) Process(buf []byte) (*program.Program, error) {
	r := &run{driver: d}

	if err := r.execute(buf); err != nil {
		return nil, err
	}

	return r.prog, nil
}

// run holds the state of one Process call.
type run struct {
	driver *Driver
	prog   *program.Program
	stage  Stage
	round  int
}

func (r *run) execute(buf []byte) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		ie, ok := v.(*instr.InvariantError)
		if !ok {
			panic(v)
		}

		ie.Pass = string(r.stage)
		slog.Warn("pipeline aborted", "stage", r.stage, "error", ie)
		err = ie
	}()

	d := r.driver

	r.once(StageDecode, func(*program.Program) {
		r.prog = core.DecodeBufferWith(d.isa, buf, d.startPosition, d.loadBias)
	})
	r.once(StageGenericSimplify, func(p *program.Program) {
		passes.GenericSimplify(p, !d.skipAll)
	})

	if d.skipAll {
		return nil
	}

	r.once(StageTargetPeephole, passes.TargetPeephole)
	r.once(StageSnapshot, passes.Snapshot)
	r.once(StageDelaySlots, passes.FixDelaySlots)

	return r.converge()
}

func (r *run) limit() int {
	if r.driver.maxRounds > 0 {
		return r.driver.maxRounds
	}

	return 4*r.prog.Len() + 16
}

// converge repeats the fixed-point passes until a whole round leaves the
// program unchanged.
func (r *run) converge() error {
	limit := r.limit()

	for r.round = 1; r.round <= limit; r.round++ {
		changed := false

		for _, step := range []struct {
			stage Stage
			pass  func(*program.Program) bool
		}{
			{StageStructural, passes.StructuralSimplify},
			{StageStructurize, passes.Structurize},
			{StageExpression, passes.ExpressionPeephole},
		} {
			c, err := r.repeat(step.stage, step.pass, limit)
			if err != nil {
				return err
			}
			changed = changed || c
		}

		r.notify(HookPosRoundDone, PassResult{Round: r.round, Changed: changed})

		if !changed {
			slog.Debug("pipeline converged", "driver", r.driver.name,
				"rounds", r.round, "lines", r.prog.Len())
			return nil
		}
	}

	return fmt.Errorf("%w after %d rounds", ErrNoFixedPoint, limit)
}

// repeat runs pass until it reports no change.
func (r *run) repeat(stage Stage, pass func(*program.Program) bool, limit int) (bool, error) {
	r.stage = stage

	changed := false
	for n := 0; ; n++ {
		if n > limit {
			return changed, fmt.Errorf("%w: %s kept changing after %d runs", ErrNoFixedPoint, stage, limit)
		}

		c := pass(r.prog)
		r.notify(HookPosPassApplied, PassResult{Stage: stage, Round: r.round, Changed: c})

		if !c {
			return changed, nil
		}
		changed = true
	}
}

func (r *run) once(stage Stage, pass func(*program.Program)) {
	r.stage = stage
	pass(r.prog)
	r.notify(HookPosPassApplied, PassResult{Stage: stage, Changed: true})

	slog.Debug("stage done", "driver", r.driver.name, "stage", stage, "lines", r.prog.Len())
}

func (r *run) notify(pos *sim.HookPos, result PassResult) {
	if r.driver.NumHooks() == 0 {
		return
	}

	r.driver.InvokeHook(sim.HookCtx{
		Domain: r.driver,
		Pos:    pos,
		Item:   r.prog,
		Detail: result,
	})
}

package srv

import (
	"github.com/agentic-social/agentic-social/pkg/sharing"
	"github.com/agentic-social/agentic-social/pkg/summary"
	"github.com/agentic-social/agentic-social/pkg/workflow"
)

type Srv struct {
	rbac      *RBACSrv
	generator *summary.Generator
	assembler *sharing.Assembler
	sequencer *workflow.Sequencer
	runs      *RunRegistry
}

type ApplyFunc func(s *Srv)

func SetupSrvs(opts ...ApplyFunc) *Srv {
	a := &Srv{
		rbac: SetupRBACSrv(), // 角色鉴权
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func ApplyGenerator(g *summary.Generator) ApplyFunc {
	return func(s *Srv) {
		s.generator = g
	}
}

func ApplyAssembler(a *sharing.Assembler) ApplyFunc {
	return func(s *Srv) {
		s.assembler = a
	}
}

func ApplySequencer(seq *workflow.Sequencer) ApplyFunc {
	return func(s *Srv) {
		s.sequencer = seq
	}
}

func ApplyRunRegistry(r *RunRegistry) ApplyFunc {
	return func(s *Srv) {
		s.runs = r
	}
}

func (s *Srv) RBAC() *RBACSrv {
	return s.rbac
}

func (s *Srv) Generator() *summary.Generator {
	return s.generator
}

func (s *Srv) Assembler() *sharing.Assembler {
	return s.assembler
}

func (s *Srv) Sequencer() *workflow.Sequencer {
	return s.sequencer
}

func (s *Srv) Runs() *RunRegistry {
	return s.runs
}

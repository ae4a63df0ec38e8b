package typecheck

import (
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/types"
)

// registerInstances populates the instance resolver and type-checks every
// member body a source instance actually supplies (auto-derived members
// get their bodies synthesized later, by the monomorphizer, per spec
// §4.6 — there is nothing here to check until a body exists).
func (c *Checker) registerInstances() {
	for _, inst := range c.prog.Instances {
		argNames := c.collectTypeArgNames(inst.TypeSig)
		argMap := map[string]types.Term{}
		for _, n := range argNames {
			argMap[n] = c.fresh()
		}
		instTerm := c.typeSigToTerm(inst.TypeSig, argMap)
		if err := c.instances.Add(inst.ClassName, instTerm, int(inst.ID), inst.AutoDerived); err != nil {
			c.diag(errcode.TycConflictingInstances, 0, "instance %s %s conflicts with an existing instance: %s", inst.ClassName, instTerm, err)
		}

		cls := c.classByName[inst.ClassName]
		if cls == nil {
			continue
		}
		for i, member := range cls.Members {
			fid, ok := findMember(c.prog, inst.Members, member)
			if !ok {
				continue // default/derived implementation, nothing to check yet
			}
			memberTerm := c.typeSigToTerm(cls.MemberTypes[i], map[string]types.Term{cls.TypeArg: instTerm})
			c.funcTerm[fid] = memberTerm
		}
	}
}

func findMember(prog *ir.Program, members []ir.FuncID, name string) (ir.FuncID, bool) {
	for _, fid := range members {
		if prog.Functions[fid].Name == name {
			return fid, true
		}
	}
	return 0, false
}

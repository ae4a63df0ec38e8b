package resolver

import (
	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/ir"
)

// resolveModuleBodies fills in every typedef's variant/field signatures,
// class member signatures, and function bodies now that every module's
// visible-name scope is complete.
func (r *Resolver) resolveModuleBodies(mid ast.ModuleID) {
	m := r.store.Modules[mid]
	scope := r.modules[mid]

	for _, aid := range m.ADTs {
		adt := r.store.ADTs[aid]
		td := r.prog.Typedefs[scope.types[adt.Name]]
		for i, v := range adt.Variants {
			td.Variants[i].Sig = r.resolveTypeSig(scope, v.Sig)
		}
	}
	for _, rid := range m.Records {
		rec := r.store.Records[rid]
		td := r.prog.Typedefs[scope.types[rec.Name]]
		for i, f := range rec.Fields {
			td.Fields[i].Sig = r.resolveTypeSig(scope, f.Sig)
		}
	}
	for _, cid := range m.Classes {
		r.resolveClass(scope, cid)
	}
	for _, iid := range m.Instances {
		r.resolveInstance(scope, iid)
	}
	for _, fid := range m.Functions {
		r.resolveFunction(scope, fid)
	}
}

func (r *Resolver) resolveClass(scope *moduleScope, cid ast.ClassID) {
	cls := r.store.Classes[cid]
	ic := r.prog.Classes[scope.classes[cls.Name]]
	ic.SuperClasses = r.resolveConstraints(scope, cls.SuperClasses)
	ic.MemberTypes = make([]ir.TypeSigID, len(cls.MemberTypes))
	for i, sig := range cls.MemberTypes {
		ic.MemberTypes[i] = r.resolveTypeSig(scope, sig)
	}
}

func (r *Resolver) resolveInstance(scope *moduleScope, iid ast.InstanceID) {
	inst := r.store.Instances[iid]
	ii := &ir.Instance{
		ClassName:        inst.ClassName,
		TypeSig:          r.resolveTypeSig(scope, inst.TypeSig),
		SuperConstraints: r.resolveConstraints(scope, inst.SuperConstraints),
	}
	for _, mfid := range inst.Members {
		mf := r.store.Functions[mfid]
		fnID := r.resolveFunctionInto(scope, mf, mf.Name)
		ii.Members = append(ii.Members, fnID)
	}
	r.prog.AddInstance(ii)
}

// deriveDefaultInstances registers a structural Show/Eq/Ord instance for
// every non-external typedef that has no explicit instance of that class
// already, so a comparison or formatter operation always has an instance
// to dispatch through — the monomorphizer synthesizes the actual member
// bodies on demand for any instance whose members a source program didn't
// supply (spec §4.6, "Auto-derivation").
func (r *Resolver) deriveDefaultInstances() {
	derivable := []string{"Show", "Eq", "Ord"}
	has := map[string]map[ir.TypedefID]bool{"Show": {}, "Eq": {}, "Ord": {}}
	for _, inst := range r.prog.Instances {
		byClass, ok := has[inst.ClassName]
		if !ok {
			continue
		}
		if tdID, ok := instanceTypedef(r.prog, inst.TypeSig); ok {
			byClass[tdID] = true
		}
	}
	for _, td := range r.prog.Typedefs {
		if td.External {
			continue
		}
		for _, className := range derivable {
			if has[className][td.ID] {
				continue
			}
			args := make([]ir.TypeSigID, len(td.TypeArgs))
			for i, a := range td.TypeArgs {
				args[i] = r.prog.AddTypeSig(0, ir.TypeArgSig{Name: a})
			}
			sigID := r.prog.AddTypeSig(0, ir.NamedSig{Typedef: td.ID, Args: args})
			r.prog.AddInstance(&ir.Instance{ClassName: className, TypeSig: sigID, AutoDerived: true})
		}
	}
}

func instanceTypedef(prog *ir.Program, sigID ir.TypeSigID) (ir.TypedefID, bool) {
	switch s := prog.TypeSig(sigID).(type) {
	case ir.NamedSig:
		return s.Typedef, true
	case ir.VariantSig:
		return s.Typedef, true
	}
	return 0, false
}

func (r *Resolver) resolveFunction(scope *moduleScope, fid ast.FuncID) {
	fn := r.store.Functions[fid]
	irID := scope.functions[fn.Name]
	r.fillFunctionBody(scope, r.prog.Functions[irID], fn)
}

// resolveFunctionInto resolves an instance member equation as its own
// freestanding named function (not reusing any class-level stub, since
// every instance provides an independent body).
func (r *Resolver) resolveFunctionInto(scope *moduleScope, fn *ast.Function, name string) ir.FuncID {
	params := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		params[i] = a.Name
	}
	stub := &ir.Function{Kind: ir.KindNamed, Name: name, Arity: len(fn.Args), Params: params, Body: ir.NoExpr, Extern: fn.Extern}
	id := r.prog.AddFunction(stub)
	r.fillFunctionBody(scope, stub, fn)
	return id
}

func (r *Resolver) fillFunctionBody(scope *moduleScope, irfn *ir.Function, fn *ast.Function) {
	if fn.Signature != nil {
		irfn.Signature = &ir.Signature{
			TypeArgs:    append([]string{}, fn.Signature.TypeArgs...),
			Constraints: r.resolveConstraints(scope, fn.Signature.Constraints),
			Sig:         r.resolveTypeSig(scope, fn.Signature.Sig),
		}
	}
	if fn.Extern || fn.Body == ast.NoExpr {
		return
	}
	ls := newLocalScope(nil)
	ls.boundary = true
	for _, a := range fn.Args {
		ls.define(a.Name)
	}
	prevHost := r.currentHost
	r.currentHost = irfn.ID
	irfn.Body = r.resolveExpr(scope, ls, fn.Body)
	r.currentHost = prevHost
}

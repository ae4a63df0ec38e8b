package resolver

import (
	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/ir"
)

// declareTypedefsAndClasses registers every ADT/record/class name in a
// module so that forward and cross-module type references resolve
// regardless of declaration order (spec §4.3, two-pass registration).
func (r *Resolver) declareTypedefsAndClasses(mid ast.ModuleID) {
	m := r.store.Modules[mid]
	scope := r.modules[mid]
	for _, aid := range m.ADTs {
		adt := r.store.ADTs[aid]
		td := &ir.Typedef{Kind: ir.TypedefADT, Name: adt.Name, TypeArgs: append([]string{}, adt.TypeArgs...)}
		id := r.prog.AddTypedef(td)
		scope.types[adt.Name] = id
	}
	for _, rid := range m.Records {
		rec := r.store.Records[rid]
		td := &ir.Typedef{Kind: ir.TypedefRecord, Name: rec.Name, TypeArgs: append([]string{}, rec.TypeArgs...), External: rec.External}
		id := r.prog.AddTypedef(td)
		scope.types[rec.Name] = id
	}
	for _, cid := range m.Classes {
		cls := r.store.Classes[cid]
		ic := &ir.Class{Name: cls.Name, TypeArg: cls.TypeArg}
		id := r.prog.AddClass(ic)
		scope.classes[cls.Name] = id
	}
}

// declareFunctionStubs creates the Function entries that must exist
// before any body is resolved: variant/record constructors (so
// expressions that call them resolve regardless of order) and named
// top-level functions (so mutual and forward recursion resolve).
func (r *Resolver) declareFunctionStubs(mid ast.ModuleID) {
	m := r.store.Modules[mid]
	scope := r.modules[mid]

	for _, aid := range m.ADTs {
		adt := r.store.ADTs[aid]
		tdID := scope.types[adt.Name]
		td := r.prog.Typedefs[tdID]
		for i, v := range adt.Variants {
			arity := r.astSigArity(v.Sig)
			fn := &ir.Function{Kind: ir.KindVariantConstructor, Name: v.Name, Arity: arity, Typedef: tdID, VariantIndex: i}
			fid := r.prog.AddFunction(fn)
			scope.functions[v.Name] = fid
			td.Variants = append(td.Variants, ir.TypedefVariant{Name: v.Name})
		}
	}
	for _, rid := range m.Records {
		rec := r.store.Records[rid]
		tdID := scope.types[rec.Name]
		td := r.prog.Typedefs[tdID]
		for _, f := range rec.Fields {
			td.Fields = append(td.Fields, ir.TypedefField{Name: f.Name})
		}
		if !rec.External {
			fn := &ir.Function{Kind: ir.KindRecordConstructor, Name: rec.Name, Arity: len(rec.Fields), Typedef: tdID}
			fid := r.prog.AddFunction(fn)
			scope.functions[rec.Name] = fid
		}
	}
	for _, cid := range m.Classes {
		cls := r.store.Classes[cid]
		icID := scope.classes[cls.Name]
		ic := r.prog.Classes[icID]
		for _, mfid := range cls.Members {
			mf := r.store.Functions[mfid]
			ic.Members = append(ic.Members, mf.Name)
			sentinel := r.declareClassMemberSentinel(mf.Name)
			r.classMemberOf[sentinel] = classMember{class: cls.Name, member: mf.Name}
			scope.functions[mf.Name] = sentinel
		}
	}
	for _, fid := range m.Functions {
		fn := r.store.Functions[fid]
		params := make([]string, len(fn.Args))
		for i, a := range fn.Args {
			params[i] = a.Name
		}
		stub := &ir.Function{Kind: ir.KindNamed, Name: fn.Name, Arity: len(fn.Args), Params: params, Body: ir.NoExpr, Extern: fn.Extern}
		id := r.prog.AddFunction(stub)
		scope.functions[fn.Name] = id
	}
}

// declareClassMemberSentinel allocates a placeholder FuncID so an
// unqualified call to a class member resolves to *something* at use
// sites that aren't yet instance-specific; resolveExpr rewrites any use
// of this sentinel into a ClassFunctionCall instead of a
// StaticFunctionCall (class members have no single body).
func (r *Resolver) declareClassMemberSentinel(name string) ir.FuncID {
	fn := &ir.Function{Kind: ir.KindNamed, Name: name, Body: ir.NoExpr, Extern: true}
	return r.prog.AddFunction(fn)
}

func (r *Resolver) astSigArity(sig ast.TypeSigID) int {
	n := 0
	for {
		fs, ok := r.store.TypeSig(sig).(ast.FunctionSig)
		if !ok {
			return n
		}
		n++
		sig = fs.To
	}
}

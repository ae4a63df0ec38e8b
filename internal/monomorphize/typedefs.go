package monomorphize

import (
	"fmt"

	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/mir"
	"github.com/sunholo/complang/internal/types"
)

// mirType lowers a ground types.Term (no FixedTypeArg/Var — the caller
// is responsible for having already applied bindConcrete) to a mir.Type,
// registering the concrete typedef instantiation it names on first use.
func (m *Monomorphizer) mirType(t types.Term) mir.Type {
	switch v := t.(type) {
	case types.Named:
		args := make([]mir.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = m.mirType(a)
		}
		tdid := m.typedefFor(v.Typedef, v.Args)
		return mir.Named{Typedef: tdid, Name: v.Name, Args: args}
	case types.Tuple:
		elems := make([]mir.Type, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = m.mirType(e)
		}
		return mir.Tuple{Elems: elems}
	case types.Function:
		return mir.FuncType{From: m.mirType(v.From), To: m.mirType(v.To)}
	default:
		// A surviving Var/FixedTypeArg means some call site in a
		// successfully type-checked program was never fully applied to
		// concrete types — shouldn't happen for a reachable function,
		// so this degrades to an opaque placeholder rather than panic.
		return mir.Named{Name: "?"}
	}
}

func typedefKey(tdID ir.TypedefID, args []types.Term) string {
	s := fmt.Sprintf("td#%d(", tdID)
	for i, a := range args {
		if i > 0 {
			s += ","
		}
		s += a.String()
	}
	return s + ")"
}

// typedefFor registers (memoized) a concrete instantiation of an IR
// typedef — e.g. List(Int), Maybe(String) — as a MIR TypeDef.
func (m *Monomorphizer) typedefFor(tdID ir.TypedefID, args []types.Term) mir.TypeDefID {
	key := typedefKey(tdID, args)
	if id, ok := m.typedefMemo[key]; ok {
		return id
	}
	td := m.prog.Typedefs[tdID]
	argMap := make(map[string]types.Term, len(td.TypeArgs))
	for i, a := range td.TypeArgs {
		if i < len(args) {
			argMap[a] = args[i]
		}
	}

	out := &mir.TypeDef{Name: td.Name}
	id := m.out.AddTypedef(out)
	m.typedefMemo[key] = id

	switch td.Kind {
	case ir.TypedefADT:
		variants := make([]mir.AdtVariant, len(td.Variants))
		for i, v := range td.Variants {
			scheme := m.checker.TypeSigToTerm(v.Sig, argMap)
			items := fieldItems(scheme)
			mirItems := make([]mir.Type, len(items))
			for j, it := range items {
				mirItems[j] = m.mirType(it)
			}
			variants[i] = mir.AdtVariant{Name: v.Name, Items: mirItems}
		}
		out.Kind = mir.Adt{Variants: variants}
	case ir.TypedefRecord:
		if td.External {
			out.Kind = mir.Record{Kind: mir.ExternalRecord{DataKind: td.Name, Args: m.mirTypes(args)}}
			return id
		}
		fields := make([]mir.Field, len(td.Fields))
		for i, f := range td.Fields {
			ft := m.checker.TypeSigToTerm(f.Sig, argMap)
			fields[i] = mir.Field{Name: f.Name, Type: m.mirType(ft)}
		}
		out.Kind = mir.Record{Kind: mir.NormalRecord{Fields: fields}}
	}
	return id
}

func (m *Monomorphizer) mirTypes(ts []types.Term) []mir.Type {
	out := make([]mir.Type, len(ts))
	for i, t := range ts {
		out[i] = m.mirType(t)
	}
	return out
}

// fieldItems counts how many leading Function layers a variant's lowered
// constructor scheme has, i.e. its declared field count.
func fieldItems(scheme types.Term) []types.Term {
	var items []types.Term
	cur := scheme
	for {
		fn, ok := cur.(types.Function)
		if !ok {
			break
		}
		items = append(items, fn.From)
		cur = fn.To
	}
	return items
}

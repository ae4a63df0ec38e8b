package resolver

import (
	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
)

// preludeModuleName is implicitly imported, unqualified, into every
// module that does not import it explicitly and is not itself named
// Prelude — mirroring how the source language's standard library is
// always in scope without a source-level import line.
const preludeModuleName = "Prelude"

// buildModuleScope computes the names visible, unqualified, inside a
// module: its own declarations, plus the names pulled in through its
// import list (hiding lists, explicit item lists with `as` renaming,
// and the implicit Prelude import), per spec §4.3 "Import processing".
func (r *Resolver) buildModuleScope(mid ast.ModuleID) {
	m := r.store.Modules[mid]
	scope := r.modules[mid]

	scope.visibleTypes = copyTypes(scope.types)
	scope.visibleClasses = copyClasses(scope.classes)
	scope.visibleFunctions = copyFuncs(scope.functions)

	explicitlyImported := map[string]bool{}
	for _, imp := range m.Imports {
		explicitlyImported[imp.Module] = true
		r.applyImport(scope, imp)
	}
	if m.Name != preludeModuleName && !explicitlyImported[preludeModuleName] {
		if srcMid, ok := r.byName[preludeModuleName]; ok {
			r.mergeAll(scope, r.modules[srcMid], "")
		}
	}

	for _, exp := range m.Exports {
		if exp.Name == "" {
			continue
		}
		if _, ok := scope.types[exp.Name]; ok {
			continue
		}
		if _, ok := scope.classes[exp.Name]; ok {
			continue
		}
		if _, ok := scope.functions[exp.Name]; ok {
			continue
		}
		r.errorf(exp.Loc, errcode.ResExportNoMatch, "module %q exports %q, which it does not declare", m.Name, exp.Name)
	}
}

func (r *Resolver) applyImport(scope *moduleScope, imp *ast.Import) {
	srcMid, ok := r.byName[imp.Module]
	if !ok {
		r.errorf(imp.Loc, errcode.ResImportedModuleNotFound, "imported module %q not found", imp.Module)
		return
	}
	src := r.modules[srcMid]

	if imp.IsHiding {
		hidden := map[string]bool{}
		for _, h := range imp.Hiding {
			hidden[h] = true
		}
		r.mergeFiltered(scope, src, func(name string) bool { return !hidden[name] }, map[string]string{})
		return
	}

	if len(imp.Items) == 0 {
		r.mergeAll(scope, src, "")
		return
	}

	renames := map[string]string{}
	allowed := map[string]bool{}
	for _, item := range imp.Items {
		allowed[item.Name] = true
		if item.As != "" {
			renames[item.Name] = item.As
		}
		if !src.known(item.Name) {
			r.errorf(item.Loc, errcode.ResImportNoMatch, "module %q has no member %q", imp.Module, item.Name)
		}
	}
	r.mergeFiltered(scope, src, func(name string) bool { return allowed[name] }, renames)
}

func (s *moduleScope) known(name string) bool {
	if _, ok := s.types[name]; ok {
		return true
	}
	if _, ok := s.classes[name]; ok {
		return true
	}
	if _, ok := s.functions[name]; ok {
		return true
	}
	return false
}

func (r *Resolver) mergeAll(dst, src *moduleScope, qualifierUnused string) {
	r.mergeFiltered(dst, src, func(string) bool { return true }, map[string]string{})
}

func (r *Resolver) mergeFiltered(dst, src *moduleScope, keep func(string) bool, renames map[string]string) {
	for name, id := range src.types {
		if keep(name) {
			dst.visibleTypes[target(name, renames)] = id
		}
	}
	for name, id := range src.classes {
		if keep(name) {
			dst.visibleClasses[target(name, renames)] = id
		}
	}
	for name, id := range src.functions {
		if keep(name) {
			dst.visibleFunctions[target(name, renames)] = id
		}
	}
}

func target(name string, renames map[string]string) string {
	if alt, ok := renames[name]; ok {
		return alt
	}
	return name
}

func copyTypes(m map[string]ir.TypedefID) map[string]ir.TypedefID {
	out := make(map[string]ir.TypedefID, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyClasses(m map[string]ir.ClassID) map[string]ir.ClassID {
	out := make(map[string]ir.ClassID, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFuncs(m map[string]ir.FuncID) map[string]ir.FuncID {
	out := make(map[string]ir.FuncID, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

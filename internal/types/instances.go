package types

import "fmt"

// InstanceInfo records one registered instance: the concrete term it
// was declared for, and which ir.Instance it resolves to.
type InstanceInfo struct {
	Type        Term
	InstanceID  int // index into ir.Program.Instances
	AutoDerived bool
}

// Resolver indexes instances by (class name, base-type head), mirroring
// `siko_type_checker2::instance_resolver::InstanceResolver`'s
// `BTreeMap<ClassId, BTreeMap<BaseType, Vec<InstanceInfo>>>`: a lookup
// first narrows by the coarse head, then unifies against the candidate
// stored there. Add rejects a second instance whose head is already
// registered for the class, so each head holds at most one candidate: a
// generic instance (`instance Eq a => Eq [a]`) and a specific one with the
// same head do not coexist.
type Resolver struct {
	byClass map[string]map[string][]InstanceInfo
}

func NewResolver() *Resolver {
	return &Resolver{byClass: map[string]map[string][]InstanceInfo{}}
}

func (r *Resolver) Add(className string, ty Term, instanceID int, autoDerived bool) error {
	head := GetBaseType(ty).key()
	byHead := r.byClass[className]
	if byHead == nil {
		byHead = map[string][]InstanceInfo{}
		r.byClass[className] = byHead
	}
	for _, existing := range byHead[head] {
		if sameHeadConflict(existing.Type, ty) {
			return fmt.Errorf("conflicting instances of %s for %s", className, ty.String())
		}
	}
	byHead[head] = append(byHead[head], InstanceInfo{Type: ty, InstanceID: instanceID, AutoDerived: autoDerived})
	return nil
}

// sameHeadConflict reports whether two instance heads registered under
// the same BaseType key would actually overlap; a conservative
// approximation (equal base type is itself the overlap condition for
// concrete heads; two generic-argument instances for the same class
// always conflict since spec.md does not support instance overlap
// resolution by specificity).
func sameHeadConflict(a, b Term) bool {
	return GetBaseType(a).key() == GetBaseType(b).key()
}

// Lookup finds an instance of className whose declared type unifies
// with ty, returning the unifier used (so the caller can apply any
// bindings the match produced, e.g. `instance Eq a => Eq [a]` binding
// `a` from the element type) and the matched InstanceInfo.
func (r *Resolver) Lookup(nextVar *int, className string, ty Term) (*InstanceInfo, *Unifier, bool) {
	byHead := r.byClass[className]
	if byHead == nil {
		return nil, nil, false
	}
	head := GetBaseType(ty).key()
	for _, inst := range byHead[head] {
		u := NewUnifier(nextVar)
		if u.Unify(ty, inst.Type) == nil {
			instCopy := inst
			return &instCopy, u, true
		}
	}
	return nil, nil, false
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/complang/internal/ir"
)

func TestUnify_VarBindsToConcrete(t *testing.T) {
	next := 0
	u := NewUnifier(&next)
	v := u.Fresh()
	intTy := Named{Typedef: ir.TypedefID(1), Name: "Int"}
	require.NoError(t, u.Unify(v, intTy))
	assert.Equal(t, intTy, u.Sub.Apply(v))
}

func TestUnify_OccursCheckFails(t *testing.T) {
	next := 0
	u := NewUnifier(&next)
	v := u.Fresh().(Var)
	list := Named{Typedef: ir.TypedefID(2), Name: "List", Args: []Term{v}}
	err := u.Unify(v, list)
	assert.Error(t, err)
}

func TestUnify_FixedTypeArgOnlySelfUnifies(t *testing.T) {
	next := 0
	u := NewUnifier(&next)
	a := FixedTypeArg{Name: "a"}
	assert.NoError(t, u.Unify(a, FixedTypeArg{Name: "a"}))
	assert.Error(t, u.Unify(a, FixedTypeArg{Name: "b"}))
	assert.Error(t, u.Unify(a, Named{Typedef: ir.TypedefID(1), Name: "Int"}))
}

func TestUnify_FunctionArgsAndResult(t *testing.T) {
	next := 0
	u := NewUnifier(&next)
	intTy := Named{Typedef: ir.TypedefID(1), Name: "Int"}
	boolTy := Named{Typedef: ir.TypedefID(2), Name: "Bool"}
	v1, v2 := u.Fresh(), u.Fresh()
	fn1 := Function{From: v1, To: v2}
	fn2 := Function{From: intTy, To: boolTy}
	require.NoError(t, u.Unify(fn1, fn2))
	assert.Equal(t, intTy, u.Sub.Apply(v1))
	assert.Equal(t, boolTy, u.Sub.Apply(v2))
}

func TestResolver_LookupMatchesRegisteredInstance(t *testing.T) {
	r := NewResolver()
	intTy := Named{Typedef: ir.TypedefID(1), Name: "Int"}
	require.NoError(t, r.Add("Eq", intTy, 0, false))
	next := 0
	info, _, ok := r.Lookup(&next, "Eq", intTy)
	require.True(t, ok)
	assert.Equal(t, 0, info.InstanceID)
}

func TestResolver_LookupMissesDifferentType(t *testing.T) {
	r := NewResolver()
	intTy := Named{Typedef: ir.TypedefID(1), Name: "Int"}
	boolTy := Named{Typedef: ir.TypedefID(2), Name: "Bool"}
	require.NoError(t, r.Add("Eq", intTy, 0, false))
	next := 0
	_, _, ok := r.Lookup(&next, "Eq", boolTy)
	assert.False(t, ok)
}

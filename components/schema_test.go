package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaReferences(t *testing.T) {
	spec, err := DefaultRegistry().Lookup("Turrets")
	require.NoError(t, err)

	b := block(t, `
turrets:
  - position: [1, 2]
    weapon_config: weapons/a.txt
    turret_config: turrets/a.txt
  - position: [3, 4]
    turret_config: turrets/b.txt
    weapon_config: weapons/b.txt
`)
	require.NoError(t, spec.Schema.Validate(b))

	assert.Equal(t, []Ref{
		{Path: "turrets[0].turret_config", Kind: FieldEntityRef, Target: "turrets/a.txt"},
		{Path: "turrets[0].weapon_config", Kind: FieldEntityRef, Target: "weapons/a.txt", Owner: "turrets[0].turret_config"},
		{Path: "turrets[1].turret_config", Kind: FieldEntityRef, Target: "turrets/b.txt"},
		{Path: "turrets[1].weapon_config", Kind: FieldEntityRef, Target: "weapons/b.txt", Owner: "turrets[1].turret_config"},
	}, spec.Schema.References(b))
}

func TestSchemaConfigReferences(t *testing.T) {
	spec, err := DefaultRegistry().Lookup("Weapon")
	require.NoError(t, err)

	refs := spec.Schema.References(block(t, "bullet_config: bullets/b.txt\ndamage: 4\n"))
	assert.Equal(t, []Ref{{Path: "bullet_config", Kind: FieldConfigRef, Target: "bullets/b.txt"}}, refs)

	assert.Empty(t, spec.Schema.References(block(t, "type: beam\nbullet_config: ~\n")))
}

func TestSchemaValidateKinds(t *testing.T) {
	s := Schema{
		{Name: "n", Kind: FieldNumber},
		{Name: "i", Kind: FieldInt},
		{Name: "b", Kind: FieldBool},
		{Name: "s", Kind: FieldString},
		{Name: "any", Kind: FieldScalar},
		{Name: "seq", Kind: FieldSequence},
		{Name: "m", Kind: FieldMapping},
		{Name: "pos", Kind: FieldPosition},
		{Name: "ref", Kind: FieldEntityRef},
	}

	require.NoError(t, s.Validate(block(t, `
n: 1.5
i: 2.0
b: 0
s: text
any: true
seq: [1, a]
m: {k: v}
pos: [0, 1.5]
ref: x.txt
`)))

	bad := map[string]string{
		"n":   "n: [1]\n",
		"i":   "i: 2.5\n",
		"b":   "b: yes please\n",
		"s":   "s: 3\n",
		"any": "any: {}\n",
		"seq": "seq: 1\n",
		"m":   "m: [1]\n",
		"pos": "pos: [a, b]\n",
		"ref": "ref: ''\n",
	}
	for param, src := range bad {
		err := s.Validate(block(t, src))
		var cerr *ComponentConstructionError
		require.ErrorAs(t, err, &cerr, param)
		assert.Equal(t, param, cerr.Param)
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer(1)
	assert.False(t, timer.Tick(0.6))
	assert.True(t, timer.Tick(0.6))
	timer.Reset()
	assert.InDelta(t, 0.2, timer.Elapsed, 1e-9)
	assert.False(t, timer.Expired())

	timer.AdvanceToFraction(0.5)
	assert.Equal(t, 0.5, timer.Elapsed)
	assert.Equal(t, 2, timer.PickIndex(5))
	timer.Tick(10)
	assert.Equal(t, 4, timer.PickIndex(5))
}

func TestPowerConsume(t *testing.T) {
	p := NewPowerComponent(10, 1, 5)
	assert.Equal(t, 4.0, p.Consume(4))
	assert.Equal(t, 6.0, p.Consume(20))
	assert.True(t, p.Overloaded)
	assert.Zero(t, p.Consume(1))

	// An empty pool gives nothing but does not overload again
	p.Overloaded = false
	assert.Zero(t, p.Consume(1))
	assert.False(t, p.Overloaded)
}

func TestPowerDraw(t *testing.T) {
	p := NewPowerComponent(10, 1, 5)
	assert.Equal(t, 4.0, p.Draw(4))
	assert.Equal(t, 6.0, p.Draw(20))
	assert.Zero(t, p.Power)
	assert.False(t, p.Overloaded)
	assert.Zero(t, p.Draw(1))

	p.Power = 5
	p.Overloaded = true
	assert.Zero(t, p.Draw(1))
}

func TestShieldsAbsorb(t *testing.T) {
	s := NewShieldsComponent(10, 1, 5)
	assert.Zero(t, s.Absorb(4))
	assert.Equal(t, 6.0, s.HP)
	assert.Equal(t, 3.0, s.Absorb(9))
	assert.Zero(t, s.HP)
	assert.True(t, s.Overloaded)
}

package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypedScalars(t *testing.T) {
	doc, err := Parse("runtime.txt", []byte(`
# runtime settings
screen_width: 1024
ratio: 0.75
debug: true
renderer: ebiten.Renderer
quoted: "768"
nothing: ~
list: [1, two, 3.5]
`))
	require.NoError(t, err)

	cases := map[string]Value{
		"screen_width": Int(1024),
		"ratio":        Float(0.75),
		"debug":        Bool(true),
		"renderer":     String("ebiten.Renderer"),
		"quoted":       String("768"),
		"nothing":      Null(),
		"list":         Seq(Int(1), String("two"), Float(3.5)),
	}
	for key, want := range cases {
		got, ok := doc.Fields.Get(key)
		require.True(t, ok, key)
		assert.True(t, want.Equal(got), "%s: want %s got %s", key, want, got)
	}
	assert.Empty(t, doc.DeriveFrom)
}

func TestParseReservedKeys(t *testing.T) {
	doc, err := Parse("enemies/destroyer.txt", []byte(`
derive_from: enemies/enemy.txt
components:
  Physics:
    size: 40
  ExplodesOnDeath:
`))
	require.NoError(t, err)

	assert.Equal(t, "enemies/enemy.txt", doc.DeriveFrom)
	assert.False(t, doc.Fields.Has(KeyDeriveFrom))

	explodes, ok := doc.Fields.Lookup("components.ExplodesOnDeath")
	require.True(t, ok)
	m, ok := explodes.AsMap()
	require.True(t, ok)
	assert.Zero(t, m.Len())
}

func TestParseKeepsKeyOrder(t *testing.T) {
	doc, err := Parse("order.txt", []byte("components:\n  Zed: {}\n  Alpha: {}\n  Mid: {}\n"))
	require.NoError(t, err)

	res := &Resolved{Name: doc.Name, Fields: doc.Fields}
	var names []string
	for _, spec := range res.Components() {
		names = append(names, spec.Type)
	}
	assert.Equal(t, []string{"Zed", "Alpha", "Mid"}, names)
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse("empty.txt", nil)
	require.NoError(t, err)
	assert.Zero(t, doc.Fields.Len())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"unterminated flow":   "components: {Physics: {mass: 1}\n",
		"bad indentation":     "components:\n  Physics:\n    mass: 1\n   size: 2\n",
		"tab indentation":     "components:\n\tPhysics: {}\n",
		"top level sequence":  "- a\n- b\n",
		"derive_from not str": "derive_from: [a, b]\n",
		"components not map":  "components: 3\n",
		"component not map":   "components:\n  Physics: 3\n",
		"duplicate key":       "hp: 1\nhp: 2\n",
		"invalid int":         "hp: !!int forty\n",
		"non scalar key":      "? [a, b]\n: 1\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("broken.txt", []byte(src))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "broken.txt", pe.Name)
			assert.NotEmpty(t, pe.Msg)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("dup.txt", []byte("a: 1\nb: 2\na: 3\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)
	assert.Contains(t, pe.Error(), "dup.txt:3:1")
}

func TestEncodeRoundTrip(t *testing.T) {
	src := NewMapping(
		KV("hp", Int(40)),
		KV("mass", Float(80)),
		KV("flag", String("true")),
		KV("turrets", Seq(Map(NewMapping(KV("position", Seq(Int(0), Int(-20))))))),
		KV("none", Null()),
	)
	out, err := Encode(src)
	require.NoError(t, err)

	doc, err := Parse("roundtrip.txt", out)
	require.NoError(t, err)
	assert.True(t, src.Equal(doc.Fields), "encoded:\n%s", out)
}

func TestLookup(t *testing.T) {
	m := NewMapping(KV("components", Map(NewMapping(
		KV("Physics", Map(NewMapping(KV("mass", Int(5))))),
	))))

	v, ok := m.Lookup("components.Physics.mass")
	require.True(t, ok)
	assert.Equal(t, Int(5), v)

	_, ok = m.Lookup("components.Physics.size")
	assert.False(t, ok)
	_, ok = m.Lookup("components.Physics.mass.deeper")
	assert.False(t, ok)
}

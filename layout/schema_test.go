package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadSchemaYAML(t *testing.T) {
	doc := `
packing: aligned
attributes:
  - name: Position3D
  - name: Intensity
  - name: Reflectance
    datatype: f32
size: 40
`
	l, err := LoadSchemaYAML(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 40, l.Size())
	assert.True(t, l.HasAttribute(Position3D))
	assert.True(t, l.HasAttribute(Intensity))

	m, ok := l.AttributeByName("Reflectance")
	require.True(t, ok)
	assert.Equal(t, F32, m.Datatype())
	assert.Equal(t, 28, m.Offset())
}

func TestLoadSchemaYAML_Tight(t *testing.T) {
	doc := `
packing: tight
attributes:
  - {name: classification, datatype: u8}
  - {name: color, datatype: vec3<u8>}
  - {name: count, datatype: u8}
  - {name: position, datatype: vec3<f32>}
`
	l, err := LoadSchemaYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 17, l.Size())
}

func TestLoadSchemaYAML_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":          ``,
		"unknown field":  "attributes: [{name: Intensity}]\nbogus: 1\n",
		"no attributes":  "attributes: []\n",
		"unknown custom": "attributes: [{name: Foo}]\n",
		"bad datatype":   "attributes: [{name: Foo, datatype: f16}]\n",
		"bad packing":    "packing: loose\nattributes: [{name: Intensity}]\n",
		"mixed offsets":  "attributes: [{name: Intensity, offset: 0}, {name: GpsTime}]\n",
		"overlap":        "attributes: [{name: Intensity, offset: 0}, {name: Classification, offset: 1}]\n",
		"size too small": "attributes: [{name: GpsTime}]\nsize: 4\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSchemaYAML(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}

func TestSchema_RoundTrip(t *testing.T) {
	orig := MustNew(Tight, Classification, ColorRGB, GpsTime)
	orig.AddPadding(3)

	out, err := yaml.Marshal(orig)
	require.NoError(t, err)

	back, err := LoadSchemaYAML(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.True(t, orig.Equal(back), "got %s want %s", back, orig)
}

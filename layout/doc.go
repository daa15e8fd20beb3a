// Package layout describes the runtime schema of a point.
//
// A point is a fixed-size record of attributes. The schema is not known at
// compile time: it is assembled at runtime from attribute definitions and then
// handed to a buffer, which uses it to locate every attribute's bytes.
//
// # Attributes
//
// A [Definition] is an attribute identity: a name plus a [Datatype]. Two
// definitions are equal iff both name and datatype match, so the same named
// attribute may be requested with a different datatype on purpose:
//
//	narrowColor := layout.ColorRGB.WithDatatype(layout.Vec3U8)
//
// # Datatypes
//
// The datatype set is closed: signed and unsigned integers and floats up to
// 64 bits, 3- and 4-component vectors of those scalars, fixed-size byte arrays
// and size-only custom types. Every datatype accepts any bit pattern of its
// size, which is why there is no boolean type. Zero bytes are a valid value of
// every datatype.
//
// Go types map onto datatypes as follows:
//
//	Go type                 | Datatype
//	------------------------|-------------------------------
//	uint8 ... int64         | U8 ... I64
//	float32, float64        | F32, F64
//	[3]S, [4]S (S scalar)   | Vector(S, 3), Vector(S, 4)
//	[N]byte (N != 3, 4)     | ByteArray(N)
//	pointer-free struct     | Custom(size, align) (record fields only)
//
// # Layouts
//
// A [Layout] is an ordered set of [Member] values, each a definition placed at
// a byte offset. Attributes are added one at a time with a [PackingRule]:
//
//	l := &layout.Layout{}
//	l.AddAttribute(layout.Classification, layout.Tight)
//	l.AddAttribute(layout.Position3D, layout.Aligned)
//
// Members never overlap and never extend past [Layout.Size]. Converting
// between datatypes of the same attribute goes through [Converter], which only
// accepts scalar-to-scalar and equal-length vector-to-vector conversions.
//
// # Record types
//
// [ForRecord] computes the layout a Go struct implies. Fields are mapped to
// attributes through the `point` struct tag; blank fields are padding:
//
//	type Point struct {
//	    Position  [3]float64 `point:"Position3D"`
//	    Intensity uint16     `point:"Intensity"`
//	    _         [6]byte
//	}
//
// Typed point views compare this layout with the buffer's layout before
// reinterpreting any memory.
package layout

// Package view provides strongly typed access to buffers.
//
// A view binds a Go type to a buffer at construction time and fails there,
// not on every access, when the type does not describe the stored data:
//
//	View                 Requires                    Access
//	-------------------  --------------------------  -------------------------------
//	Points[T]            buffer.Buffer               At, All (copies)
//	PointsMut[T]         buffer.BufferMut            + Set
//	PointRefs[T]         buffer.InterleavedBuffer    + Ref, Range (no copy)
//	PointRefsMut[T]      buffer.InterleavedBufferMut + RefMut, RangeMut
//	Attribute[T]         buffer.Buffer               At, All (copies)
//	AttributeMut[T]      buffer.BufferMut            + Set, Transform
//	AttributeRefs[T]     buffer.ColumnarBuffer       + Ref, Range (no copy)
//	AttributeRefsMut[T]  buffer.ColumnarBufferMut    + RefMut, RangeMut
//	Converted[T]         buffer.Buffer               At, All (converted copies)
//
// Point views need a record type whose layout, derived from `point` struct
// tags, is structurally equal to the buffer layout:
//
//	type Point struct {
//		Position       [3]float64 `point:"Position3D"`
//		Intensity      uint16     `point:"Intensity"`
//		Classification uint8      `point:"Classification"`
//		_              [5]byte
//	}
//
//	pts, err := view.Points[Point](buf)
//
// Attribute views need the stored member to match the definition by name and
// datatype, and T to be the Go counterpart of the datatype. Converted views
// accept any stored numeric datatype with a supported conversion to T.
//
// Views read the buffer's current length on every call. Reference views hand
// out pointers into buffer memory that become stale when an owning buffer
// grows.
package view

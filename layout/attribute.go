package layout

import "fmt"

// Definition identifies an attribute independent of any buffer.
//
// Definitions are compared with ==: name and datatype must both match.
type Definition struct {
	Name     string
	Datatype Datatype
}

// NewDefinition returns a definition for the given name and datatype.
func NewDefinition(name string, dt Datatype) Definition {
	return Definition{Name: name, Datatype: dt}
}

// Size returns the size of one attribute value in bytes.
func (d Definition) Size() int { return d.Datatype.Size() }

// WithDatatype returns the same attribute re-interpreted with another datatype.
func (d Definition) WithDatatype(dt Datatype) Definition {
	return Definition{Name: d.Name, Datatype: dt}
}

func (d Definition) String() string {
	return fmt.Sprintf("%s;%s", d.Name, d.Datatype)
}

func (d Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAttribute)
	}
	if !d.Datatype.IsValid() {
		return fmt.Errorf("%w: attribute %q has datatype %s", ErrInvalidDatatype, d.Name, d.Datatype)
	}
	return nil
}

// Member is a Definition placed at a byte offset inside one Layout.
type Member struct {
	def    Definition
	offset int
}

// Definition returns the attribute definition of the member.
func (m Member) Definition() Definition { return m.def }

// Name returns the attribute name.
func (m Member) Name() string { return m.def.Name }

// Datatype returns the stored datatype.
func (m Member) Datatype() Datatype { return m.def.Datatype }

// Offset returns the byte offset of the member within a point.
func (m Member) Offset() int { return m.offset }

// Size returns the member size in bytes.
func (m Member) Size() int { return m.def.Size() }

// End returns the offset one past the member's last byte.
func (m Member) End() int { return m.offset + m.def.Size() }

// Alignment returns the natural alignment of the member's datatype.
func (m Member) Alignment() int { return m.def.Datatype.Alignment() }

// IsAligned reports whether the member sits on its natural alignment.
func (m Member) IsAligned() bool { return m.offset%m.Alignment() == 0 }

func (m Member) String() string {
	return fmt.Sprintf("%s @%d", m.def, m.offset)
}

// Built-in attributes. The names and default datatypes follow the LAS point
// record conventions; flags are stored as u8 because booleans are not a
// datatype.
var (
	Position3D                  = NewDefinition("Position3D", Vec3F64)
	Intensity                   = NewDefinition("Intensity", U16)
	ReturnNumber                = NewDefinition("ReturnNumber", U8)
	NumberOfReturns             = NewDefinition("NumberOfReturns", U8)
	ClassificationFlags         = NewDefinition("ClassificationFlags", U8)
	ScannerChannel              = NewDefinition("ScannerChannel", U8)
	ScanDirectionFlag           = NewDefinition("ScanDirectionFlag", U8)
	EdgeOfFlightLine            = NewDefinition("EdgeOfFlightLine", U8)
	Classification              = NewDefinition("Classification", U8)
	UserData                    = NewDefinition("UserData", U8)
	ScanAngle                   = NewDefinition("ScanAngle", I16)
	ScanAngleRank               = NewDefinition("ScanAngleRank", I8)
	PointSourceID               = NewDefinition("PointSourceID", U16)
	ColorRGB                    = NewDefinition("ColorRGB", Vec3U16)
	GpsTime                     = NewDefinition("GpsTime", F64)
	NIR                         = NewDefinition("NIR", U16)
	WavePacketDescriptorIndex   = NewDefinition("WavePacketDescriptorIndex", U8)
	WaveformDataOffset          = NewDefinition("WaveformDataOffset", U64)
	WaveformPacketSize          = NewDefinition("WaveformPacketSize", U32)
	ReturnPointWaveformLocation = NewDefinition("ReturnPointWaveformLocation", F32)
	WaveformParameters          = NewDefinition("WaveformParameters", Vec3F32)
	PointID                     = NewDefinition("PointID", U64)
	Normal                      = NewDefinition("Normal", Vec3F32)
)

var builtins = []Definition{
	Position3D, Intensity, ReturnNumber, NumberOfReturns, ClassificationFlags,
	ScannerChannel, ScanDirectionFlag, EdgeOfFlightLine, Classification, UserData,
	ScanAngle, ScanAngleRank, PointSourceID, ColorRGB, GpsTime, NIR,
	WavePacketDescriptorIndex, WaveformDataOffset, WaveformPacketSize,
	ReturnPointWaveformLocation, WaveformParameters, PointID, Normal,
}

// Builtin returns the built-in definition with the given name.
func Builtin(name string) (Definition, bool) {
	for _, d := range builtins {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

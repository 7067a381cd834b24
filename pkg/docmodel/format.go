package docmodel

// Format is the set of inline format flags carried by a text run.
// Flags are independent and combinable.
type Format uint8

// Format flags.
const (
	FormatBold Format = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatCode
)

// FormatNone is the empty flag set.
const FormatNone Format = 0

// Has reports whether every flag in flag is set.
func (f Format) Has(flag Format) bool {
	return flag != 0 && f&flag == flag
}

// With returns f with flag set.
func (f Format) With(flag Format) Format {
	return f | flag
}

// Without returns f with flag cleared.
func (f Format) Without(flag Format) Format {
	return f &^ flag
}

// Toggle returns f with flag flipped.
func (f Format) Toggle(flag Format) Format {
	return f ^ flag
}

// Size is an image dimension in pixels. NaturalSize means no explicit size.
type Size int

// NaturalSize is the "no explicit width/height" sentinel.
const NaturalSize Size = 0

// SizeOf converts an exported dimension. Zero and negative values are natural.
func SizeOf(v int) Size {
	if v <= 0 {
		return NaturalSize
	}
	return Size(v)
}

// IsNatural reports whether the size is the natural-size sentinel.
func (s Size) IsNatural() bool {
	return s <= NaturalSize
}

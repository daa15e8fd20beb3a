// Package arrowconv converts point buffers to and from Apache Arrow records.
//
// Each attribute becomes one non-nullable column named after the attribute:
//
//	scalar          primitive array (uint8 ... float64)
//	vec3/vec4       fixed_size_list<scalar>[n]
//	bytes[n]        fixed_size_binary[n]
//
// Custom datatypes have no Arrow counterpart and are rejected. Column data is
// copied in native byte order, which Arrow requires to be little-endian on
// every supported platform.
package arrowconv

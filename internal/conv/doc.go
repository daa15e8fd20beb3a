// Package conv provides checked integer conversions.
//
// Point counts, byte lengths and header fields arrive as fixed-width integers
// from files and foreign memory, while buffers index with int. These helpers
// reject values that would overflow instead of silently wrapping.
//
// For arithmetic that is bounded by construction (loop indices, offsets inside
// a validated layout), use direct casts instead.
package conv

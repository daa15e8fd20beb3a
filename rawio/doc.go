// Package rawio reads and writes point buffers as self-describing binary files.
//
// File layout (header integers are little-endian):
//
//	offset  size  field
//	0       4     magic "PBUF"
//	4       1     format version (1)
//	5       1     flags: bits 0-1 compression, bit 7 big-endian payload
//	6       1     codec name length n
//	7       n     codec name ("cbor", "json", "go-json")
//	7+n     4     schema length m
//	11+n    m     layout.Schema encoded with the codec
//	11+n+m  8     point count
//	...           zero padding up to a multiple of 64 bytes
//	              payload: count interleaved points in the writer's native byte order
//
// The payload of an uncompressed file starts at PayloadOffset, which is
// 64-byte aligned, so the file can be memory-mapped with
// pointbuf.OpenMapped(path, l, pointbuf.WithOffset(off)) and viewed by
// reference.
//
// Compressed payloads are a single zstd stream or lz4 frame over the same
// interleaved bytes.
package rawio

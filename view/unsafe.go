package view

import (
	"fmt"
	"reflect"
	"unsafe"
)

// bytesOf returns the memory of *v as a byte slice.
func bytesOf[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v)) //nolint:gosec // T is plain
}

// refOf reinterprets b as a *T. b must hold at least one T and be aligned.
func refOf[T any](b []byte) *T {
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // checked by the view constructors
}

// sliceOf reinterprets b as n consecutive values of T.
func sliceOf[T any](b []byte, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n) //nolint:gosec // checked by the view constructors
}

func alignedFor[T any](b []byte) bool {
	if len(b) == 0 {
		return true
	}
	var zero T
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))%unsafe.Alignof(zero) == 0 //nolint:gosec // address inspection only
}

func checkIndex(i, n int) {
	if uint(i) >= uint(n) {
		panic(fmt.Sprintf("view: index %d out of range [0:%d]", i, n))
	}
}

func checkRange(start, end, n int) {
	if start < 0 || start > end || end > n {
		panic(fmt.Sprintf("view: range [%d:%d] out of range [0:%d]", start, end, n))
	}
}

func unaligned[T any]() error {
	return fmt.Errorf("%w: %s", ErrUnalignedMemory, reflect.TypeFor[T]())
}

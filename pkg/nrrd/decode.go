package nrrd

import (
	"fmt"
	"math"
	"slices"
	"unsafe"
)

// Number is the set of element types a payload decodes to.
type Number interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// DTypeOf maps a Go element type to its NRRD type.
func DTypeOf[T Number]() DType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return DTypeInt8
	case uint8:
		return DTypeUint8
	case int16:
		return DTypeInt16
	case uint16:
		return DTypeUint16
	case int32:
		return DTypeInt32
	case uint32:
		return DTypeUint32
	case int64:
		return DTypeInt64
	case uint64:
		return DTypeUint64
	case float32:
		return DTypeFloat32
	default:
		return DTypeFloat64
	}
}

// Decode converts payload bytes laid out as h's type and endian into T,
// with Go conversion semantics.
func Decode[T Number](h *Header, b []byte) ([]T, error) {
	if h.Type == DTypeBlock {
		return nil, ErrBlockDecode
	}
	es := h.Type.Size()
	if es == 0 {
		return nil, fmt.Errorf("nrrd: decode %s: unknown element type", h.Type)
	}
	if len(b)%es != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrShortPayload, len(b), es)
	}
	n := len(b) / es
	out := make([]T, n)

	if h.Type == DTypeOf[T]() && (h.Endian == NativeEndian() || es == 1) {
		copy(asBytes(out), b)
		return out, nil
	}

	bo := h.Endian.ByteOrder()
	switch h.Type {
	case DTypeInt8:
		for i := range out {
			out[i] = T(int8(b[i]))
		}
	case DTypeUint8:
		for i := range out {
			out[i] = T(b[i])
		}
	case DTypeInt16:
		for i := range out {
			out[i] = T(int16(bo.Uint16(b[i*2:])))
		}
	case DTypeUint16:
		for i := range out {
			out[i] = T(bo.Uint16(b[i*2:]))
		}
	case DTypeInt32:
		for i := range out {
			out[i] = T(int32(bo.Uint32(b[i*4:])))
		}
	case DTypeUint32:
		for i := range out {
			out[i] = T(bo.Uint32(b[i*4:]))
		}
	case DTypeInt64:
		for i := range out {
			out[i] = T(int64(bo.Uint64(b[i*8:])))
		}
	case DTypeUint64:
		for i := range out {
			out[i] = T(bo.Uint64(b[i*8:]))
		}
	case DTypeFloat32:
		for i := range out {
			out[i] = T(math.Float32frombits(bo.Uint32(b[i*4:])))
		}
	case DTypeFloat64:
		for i := range out {
			out[i] = T(math.Float64frombits(bo.Uint64(b[i*8:])))
		}
	}
	return out, nil
}

// Encode returns a native-endian copy of data's bytes.
func Encode[T Number](data []T) []byte {
	return slices.Clone(asBytes(data))
}

// asBytes views data as bytes without copying.
func asBytes[T Number](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*int(unsafe.Sizeof(data[0])))
}

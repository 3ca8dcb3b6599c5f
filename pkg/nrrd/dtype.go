package nrrd

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// DType identifies the on-disk element type.
type DType uint8

const (
	DTypeUnknown DType = iota
	DTypeInt8
	DTypeUint8
	DTypeInt16
	DTypeUint16
	DTypeInt32
	DTypeUint32
	DTypeInt64
	DTypeUint64
	DTypeFloat32
	DTypeFloat64
	DTypeBlock
)

var dtypeNames = map[string]DType{
	"signed char": DTypeInt8, "int8": DTypeInt8, "int8_t": DTypeInt8,

	"uchar": DTypeUint8, "unsigned char": DTypeUint8, "uint8": DTypeUint8, "uint8_t": DTypeUint8,

	"short": DTypeInt16, "short int": DTypeInt16, "signed short": DTypeInt16,
	"signed short int": DTypeInt16, "int16": DTypeInt16, "int16_t": DTypeInt16,

	"ushort": DTypeUint16, "unsigned short": DTypeUint16, "unsigned short int": DTypeUint16,
	"uint16": DTypeUint16, "uint16_t": DTypeUint16,

	"int": DTypeInt32, "signed int": DTypeInt32, "int32": DTypeInt32, "int32_t": DTypeInt32,

	"uint": DTypeUint32, "unsigned int": DTypeUint32, "uint32": DTypeUint32, "uint32_t": DTypeUint32,

	"longlong": DTypeInt64, "long long": DTypeInt64, "long long int": DTypeInt64,
	"signed long long": DTypeInt64, "signed long long int": DTypeInt64,
	"int64": DTypeInt64, "int64_t": DTypeInt64,

	"ulonglong": DTypeUint64, "unsigned long long": DTypeUint64, "unsigned long long int": DTypeUint64,
	"uint64": DTypeUint64, "uint64_t": DTypeUint64,

	"float":  DTypeFloat32,
	"double": DTypeFloat64,
	"block":  DTypeBlock,
}

// ParseDType accepts every C-style spelling NRRD allows.
func ParseDType(s string) (DType, error) {
	if t, ok := dtypeNames[strings.TrimSpace(s)]; ok {
		return t, nil
	}
	return DTypeUnknown, malformed("unknown type %q", s)
}

func (t DType) String() string {
	switch t {
	case DTypeInt8:
		return "int8"
	case DTypeUint8:
		return "uint8"
	case DTypeInt16:
		return "int16"
	case DTypeUint16:
		return "uint16"
	case DTypeInt32:
		return "int32"
	case DTypeUint32:
		return "uint32"
	case DTypeInt64:
		return "int64"
	case DTypeUint64:
		return "uint64"
	case DTypeFloat32:
		return "float"
	case DTypeFloat64:
		return "double"
	case DTypeBlock:
		return "block"
	default:
		return fmt.Sprintf("DType(%d)", uint8(t))
	}
}

// Size is the element size in bytes. Block types report 1; the real size
// comes from the header's block size.
func (t DType) Size() int {
	switch t {
	case DTypeInt8, DTypeUint8, DTypeBlock:
		return 1
	case DTypeInt16, DTypeUint16:
		return 2
	case DTypeInt32, DTypeUint32, DTypeFloat32:
		return 4
	case DTypeInt64, DTypeUint64, DTypeFloat64:
		return 8
	default:
		return 0
	}
}

// Encoding is the payload encoding.
type Encoding uint8

const (
	EncodingRaw Encoding = iota
	EncodingText
	EncodingHex
	EncodingGzip
	EncodingBzip2
)

// ParseEncoding is case-insensitive and accepts the short aliases.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw":
		return EncodingRaw, nil
	case "txt", "text", "ascii":
		return EncodingText, nil
	case "hex":
		return EncodingHex, nil
	case "gz", "gzip":
		return EncodingGzip, nil
	case "bz2", "bzip2":
		return EncodingBzip2, nil
	}
	return EncodingRaw, malformed("unknown encoding %q", s)
}

func (e Encoding) String() string {
	switch e {
	case EncodingRaw:
		return "raw"
	case EncodingText:
		return "txt"
	case EncodingHex:
		return "hex"
	case EncodingGzip:
		return "gzip"
	case EncodingBzip2:
		return "bzip2"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// FileExt is the extension used for a detached data file of this encoding.
func (e Encoding) FileExt() string {
	switch e {
	case EncodingGzip:
		return ".raw.gz"
	case EncodingBzip2:
		return ".raw.bz2"
	case EncodingText:
		return ".txt"
	case EncodingHex:
		return ".hex"
	default:
		return ".raw"
	}
}

// Endian is the byte order of multi-byte elements in the payload.
type Endian uint8

const (
	EndianUnknown Endian = iota
	EndianLittle
	EndianBig
)

// NativeEndian reports the byte order of the running platform.
func NativeEndian() Endian {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return EndianLittle
	}
	return EndianBig
}

func ParseEndian(s string) (Endian, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "little":
		return EndianLittle, nil
	case "big":
		return EndianBig, nil
	}
	return EndianUnknown, malformed("unknown endian %q", s)
}

func (e Endian) String() string {
	switch e {
	case EndianLittle:
		return "little"
	case EndianBig:
		return "big"
	default:
		return "unknown"
	}
}

// ByteOrder maps the endian to encoding/binary. Unknown defaults to native.
func (e Endian) ByteOrder() binary.ByteOrder {
	switch e {
	case EndianLittle:
		return binary.LittleEndian
	case EndianBig:
		return binary.BigEndian
	default:
		return binary.NativeEndian
	}
}

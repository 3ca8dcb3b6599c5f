package nrrd

import "strings"

// Kind is the per-axis semantic tag.
type Kind uint8

const (
	KindNone Kind = iota
	KindDomain
	KindSpace
	KindTime
	KindList
	KindPoint
	KindVector
	KindCovariantVector
	KindNormal
	KindStub
	KindScalar
	KindComplex
	Kind2Vector
	Kind3Color
	KindRGBColor
	KindHSVColor
	KindXYZColor
	Kind4Color
	KindRGBAColor
	Kind3Vector
	Kind3Gradient
	Kind3Normal
	Kind4Vector
	KindQuaternion
	Kind2DSymmetricMatrix
	Kind2DMaskedSymmetricMatrix
	Kind2DMatrix
	Kind2DMaskedMatrix
	Kind3DSymmetricMatrix
	Kind3DMaskedSymmetricMatrix
	Kind3DMatrix
	Kind3DMaskedMatrix
	kindCount
)

var kindNames = [kindCount]string{
	KindNone:                    "none",
	KindDomain:                  "domain",
	KindSpace:                   "space",
	KindTime:                    "time",
	KindList:                    "list",
	KindPoint:                   "point",
	KindVector:                  "vector",
	KindCovariantVector:         "covariant-vector",
	KindNormal:                  "normal",
	KindStub:                    "stub",
	KindScalar:                  "scalar",
	KindComplex:                 "complex",
	Kind2Vector:                 "2-vector",
	Kind3Color:                  "3-color",
	KindRGBColor:                "RGB-color",
	KindHSVColor:                "HSV-color",
	KindXYZColor:                "XYZ-color",
	Kind4Color:                  "4-color",
	KindRGBAColor:               "RGBA-color",
	Kind3Vector:                 "3-vector",
	Kind3Gradient:               "3-gradient",
	Kind3Normal:                 "3-normal",
	Kind4Vector:                 "4-vector",
	KindQuaternion:              "quaternion",
	Kind2DSymmetricMatrix:       "2D-symmetric-matrix",
	Kind2DMaskedSymmetricMatrix: "2D-masked-symmetric-matrix",
	Kind2DMatrix:                "2D-matrix",
	Kind2DMaskedMatrix:          "2D-masked-matrix",
	Kind3DSymmetricMatrix:       "3D-symmetric-matrix",
	Kind3DMaskedSymmetricMatrix: "3D-masked-symmetric-matrix",
	Kind3DMatrix:                "3D-matrix",
	Kind3DMaskedMatrix:          "3D-masked-matrix",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "none"
}

// ParseKind matches the canonical spelling first, then case-insensitively.
// "???" is the historical spelling of none.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if s == "???" {
		return KindNone, nil
	}
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), nil
		}
	}
	return KindNone, malformed("unknown kind %q", s)
}

// Centering is the per-axis sample centering.
type Centering uint8

const (
	CenteringNone Centering = iota
	CenteringCell
	CenteringNode
)

// ParseCentering never fails: anything other than cell or node is none.
func ParseCentering(s string) Centering {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cell":
		return CenteringCell
	case "node":
		return CenteringNode
	default:
		return CenteringNone
	}
}

func (c Centering) String() string {
	switch c {
	case CenteringCell:
		return "cell"
	case CenteringNode:
		return "node"
	default:
		return "none"
	}
}

// Space names the world coordinate frame. The zero value means the field is absent.
type Space uint8

const (
	SpaceUnset Space = iota
	SpaceRAS
	SpaceLAS
	SpaceLPS
	SpaceRAST
	SpaceLAST
	SpaceLPST
	SpaceScannerXYZ
	SpaceScannerXYZTime
	Space3DRightHanded
	Space3DLeftHanded
	Space3DRightHandedTime
	Space3DLeftHandedTime
	spaceCount
)

var spaceNames = [spaceCount]struct{ short, long string }{
	SpaceRAS:               {"ras", "right-anterior-superior"},
	SpaceLAS:               {"las", "left-anterior-superior"},
	SpaceLPS:               {"lps", "left-posterior-superior"},
	SpaceRAST:              {"rast", "right-anterior-superior-time"},
	SpaceLAST:              {"last", "left-anterior-superior-time"},
	SpaceLPST:              {"lpst", "left-posterior-superior-time"},
	SpaceScannerXYZ:        {"", "scanner-xyz"},
	SpaceScannerXYZTime:    {"", "scanner-xyz-time"},
	Space3DRightHanded:     {"", "3D-right-handed"},
	Space3DLeftHanded:      {"", "3D-left-handed"},
	Space3DRightHandedTime: {"", "3D-right-handed-time"},
	Space3DLeftHandedTime:  {"", "3D-left-handed-time"},
}

// ParseSpace matches short and long names case-insensitively.
func ParseSpace(s string) (Space, error) {
	s = strings.TrimSpace(s)
	for i := SpaceRAS; i < spaceCount; i++ {
		n := spaceNames[i]
		if (n.short != "" && strings.EqualFold(n.short, s)) || strings.EqualFold(n.long, s) {
			return i, nil
		}
	}
	return SpaceUnset, malformed("unknown space %q", s)
}

func (s Space) String() string {
	if s > SpaceUnset && s < spaceCount {
		return spaceNames[s].long
	}
	return ""
}

// Dim is the number of world axes the space implies, or 0 when unset.
func (s Space) Dim() int {
	switch s {
	case SpaceUnset:
		return 0
	case SpaceRAST, SpaceLAST, SpaceLPST, SpaceScannerXYZTime, Space3DRightHandedTime, Space3DLeftHandedTime:
		return 4
	default:
		return 3
	}
}

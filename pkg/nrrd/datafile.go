package nrrd

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// DataFile is the data-file directive of a detached header.
type DataFile interface {
	// Paths lists the data files in read order, as written in the header.
	Paths() []string
	// String is the directive value following "data file: ".
	String() string

	clone() DataFile
}

// SingleFile names one data file.
type SingleFile struct {
	Path string
}

func (f SingleFile) Paths() []string { return []string{f.Path} }
func (f SingleFile) String() string  { return f.Path }
func (f SingleFile) clone() DataFile { return f }

// FileSequence is a printf-style pattern expanded over an index range.
type FileSequence struct {
	Format string // C-style, one %d, %i or %u conversion
	Min    int
	Max    int
	Step   int
	SubDim int // 0 when absent
}

// NewFileSequence validates the format and range before returning the
// sequence.
func NewFileSequence(format string, min, max, step, subDim int) (FileSequence, error) {
	if _, err := goFormat(format); err != nil {
		return FileSequence{}, err
	}
	for _, n := range []int{min, max, step} {
		if n == math.MinInt {
			return FileSequence{}, malformed("data file range value %d out of range", n)
		}
	}
	return FileSequence{Format: format, Min: min, Max: max, Step: step, SubDim: subDim}, nil
}

func (f FileSequence) bounds() (lo, hi, step int, ok bool) {
	if f.Step == 0 || f.Min == math.MinInt || f.Max == math.MinInt || f.Step == math.MinInt {
		return 0, 0, 0, false
	}
	lo, hi = absInt(f.Min), absInt(f.Max)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, absInt(f.Step), true
}

// Count is the number of indices the range expands to, without expanding
// it. It saturates at math.MaxInt.
func (f FileSequence) Count() int {
	lo, hi, step, ok := f.bounds()
	if !ok {
		return 0
	}
	n := (hi - lo) / step
	if n == math.MaxInt {
		return n
	}
	return n + 1
}

// Indices expands the range. The bounds are taken by absolute value and
// ordered ascending; a negative step walks the result in reverse. Bound
// Count before expanding ranges read from untrusted headers.
func (f FileSequence) Indices() []int {
	lo, _, step, ok := f.bounds()
	if !ok {
		return nil
	}
	n := f.Count()
	out := make([]int, n)
	for k := range out {
		out[k] = lo + k*step
	}
	if f.Step < 0 {
		slices.Reverse(out)
	}
	return out
}

func (f FileSequence) Paths() []string {
	gf, err := goFormat(f.Format)
	if err != nil {
		return nil
	}
	idx := f.Indices()
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = fmt.Sprintf(gf, n)
	}
	return out
}

func (f FileSequence) String() string {
	s := fmt.Sprintf("%s %d %d %d", f.Format, f.Min, f.Max, f.Step)
	if f.SubDim > 0 {
		s += " " + strconv.Itoa(f.SubDim)
	}
	return s
}

func (f FileSequence) clone() DataFile { return f }

// FileList names its data files on the lines after "data file: LIST".
type FileList struct {
	SubDim int // 0 when absent
	Files  []string
}

func (f FileList) Paths() []string { return slices.Clone(f.Files) }

func (f FileList) String() string {
	if f.SubDim > 0 {
		return "LIST " + strconv.Itoa(f.SubDim)
	}
	return "LIST"
}

func (f FileList) clone() DataFile {
	f.Files = slices.Clone(f.Files)
	return f
}

var (
	sequenceRE = regexp.MustCompile(`^(\S+)\s+(-?\d+)\s+(-?\d+)\s+(-?\d+)(?:\s+(\d+))?$`)
	listRE     = regexp.MustCompile(`^LIST(?:\s+(\d+))?$`)
)

// parseDataFile reads the directive value. A LIST directive returns a
// FileList with no files; the caller attaches the following lines.
func parseDataFile(s string) (DataFile, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, malformed("empty data file")
	}
	if m := listRE.FindStringSubmatch(s); m != nil {
		f := FileList{}
		if m[1] != "" {
			f.SubDim, _ = strconv.Atoi(m[1])
		}
		return f, nil
	}
	if m := sequenceRE.FindStringSubmatch(s); m != nil && strings.Contains(m[1], "%") {
		var n [4]int
		for i, g := range m[2:] {
			if g == "" {
				continue
			}
			v, err := strconv.Atoi(g)
			if err != nil {
				return nil, malformed("data file %q: %v", s, err)
			}
			n[i] = v
		}
		return NewFileSequence(m[1], n[0], n[1], n[2], n[3])
	}
	return SingleFile{Path: s}, nil
}

// goFormat translates a C integer format into a fmt verb. The format must
// hold exactly one integer conversion; "%%" is a literal percent.
func goFormat(format string) (string, error) {
	var (
		b     strings.Builder
		convs int
	)
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.WriteString("%%")
			i++
			continue
		}
		j := i + 1
		for j < len(format) && strings.IndexByte("-+ 0#", format[j]) >= 0 {
			j++
		}
		for j < len(format) && format[j] >= '0' && format[j] <= '9' {
			j++
		}
		if j == len(format) {
			return "", malformed("data file format %q: dangling %%", format)
		}
		switch format[j] {
		case 'd', 'i', 'u':
		default:
			return "", malformed("data file format %q: conversion %%%c is not an integer", format, format[j])
		}
		b.WriteString(format[i:j])
		b.WriteByte('d')
		convs++
		i = j
	}
	if convs != 1 {
		return "", malformed("data file format %q: want one integer conversion, have %d", format, convs)
	}
	return b.String(), nil
}

// fileCount is the number of files d names.
func fileCount(d DataFile) int {
	switch d := d.(type) {
	case FileSequence:
		return d.Count()
	case FileList:
		return len(d.Files)
	case nil:
		return 0
	default:
		return len(d.Paths())
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ResolvePath joins a relative data-file path to the header's directory.
func ResolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

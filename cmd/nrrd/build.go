package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nrrd/internal/logger"
	"github.com/samcharles93/nrrd/pkg/nrrd"
)

// buildSpec describes raw data on disk for which a detached header is built.
type buildSpec struct {
	dtype     string
	dims      []int
	encoding  string
	endian    string
	complex   bool
	file      string
	fileFmt   string
	nFiles    int
	startIdx  int
	step      int
	voxSizeMM []float64
}

func buildCmd() *cli.Command {
	var (
		spec    buildSpec
		dims    string
		voxSize string
	)

	return &cli.Command{
		Name:      "build",
		Usage:     "Build a detached .nhdr for existing raw data files",
		ArgsUsage: "<out.nhdr>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dims", Usage: "sizes of the spatial axes, e.g. \"[256 256 128]\"", Required: true, Destination: &dims},
			&cli.StringFlag{Name: "dtype", Aliases: []string{"d"}, Usage: "element type (NRRD spelling, e.g. ushort)", Required: true, Destination: &spec.dtype},
			&cli.StringFlag{Name: "encoding", Aliases: []string{"e"}, Usage: "data encoding (raw, gzip, bzip2)", Value: "raw", Destination: &spec.encoding},
			&cli.StringFlag{Name: "endian", Usage: "byte order of the data files (little, big; default native)", Destination: &spec.endian},
			&cli.BoolFlag{Name: "complex", Aliases: []string{"c"}, Usage: "prepend a size-2 complex axis", Destination: &spec.complex},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "single data file", Destination: &spec.file},
			&cli.StringFlag{Name: "file-fmt", Usage: "printf pattern naming numbered data files, e.g. slice_%03d.raw", Destination: &spec.fileFmt},
			&cli.IntFlag{Name: "n-files", Aliases: []string{"n"}, Usage: "number of numbered data files", Destination: &spec.nFiles},
			&cli.IntFlag{Name: "start-idx", Usage: "first file index", Destination: &spec.startIdx},
			&cli.IntFlag{Name: "step", Usage: "file index step", Value: 1, Destination: &spec.step},
			&cli.StringFlag{Name: "vox-size-mm", Usage: "voxel size per spatial axis in mm (default 1)", Destination: &voxSize},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if cmd.NArg() != 1 {
				return cli.Exit("build: expected one output path", 1)
			}

			var err error
			if spec.dims, err = parseIntList(dims); err != nil {
				return cli.Exit(fmt.Sprintf("build: --dims: %v", err), 1)
			}
			if voxSize != "" {
				if spec.voxSizeMM, err = parseFloatList(voxSize); err != nil {
					return cli.Exit(fmt.Sprintf("build: --vox-size-mm: %v", err), 1)
				}
			}

			h, err := buildHeader(spec)
			if err != nil {
				return cli.Exit("build: "+err.Error(), 1)
			}
			out := nrrd.BasePath(cmd.Args().First()) + ".nhdr"
			if err := nrrd.WriteHeader(out, h); err != nil {
				return err
			}
			log.Info("wrote header", "path", out, "sizes", h.Sizes, "files", len(h.DataFile.Paths()))
			return nil
		},
	}
}

func buildHeader(s buildSpec) (*nrrd.Header, error) {
	dtype, err := nrrd.ParseDType(s.dtype)
	if err != nil {
		return nil, err
	}
	if dtype == nrrd.DTypeBlock {
		return nil, errors.New("block data needs a block size; use a numeric type")
	}
	if len(s.dims) == 0 {
		return nil, errors.New("no dimensions")
	}

	sizes := s.dims
	if s.complex {
		sizes = append([]int{2}, s.dims...)
	}
	h := nrrd.NewHeader(dtype, sizes)

	if s.encoding != "" {
		if h.Encoding, err = nrrd.ParseEncoding(s.encoding); err != nil {
			return nil, err
		}
	}
	if s.endian != "" {
		if h.Endian, err = nrrd.ParseEndian(s.endian); err != nil {
			return nil, err
		}
	}

	switch {
	case s.file != "":
		h.DataFile = nrrd.SingleFile{Path: s.file}
	case s.fileFmt != "":
		if s.nFiles <= 0 {
			return nil, errors.New("--n-files must be positive with --file-fmt")
		}
		step := s.step
		if step == 0 {
			step = 1
		}
		seq, err := nrrd.NewFileSequence(s.fileFmt, s.startIdx, s.startIdx+(s.nFiles-1)*step, step, 0)
		if err != nil {
			return nil, err
		}
		h.DataFile = seq
	default:
		return nil, errors.New("a single --file or a --file-fmt sequence must be given")
	}

	spatial := len(s.dims)
	vox := s.voxSizeMM
	if vox == nil {
		vox = make([]float64, spatial)
		for i := range vox {
			vox[i] = 1
		}
	}
	if len(vox) != spatial {
		return nil, fmt.Errorf("%d voxel sizes for %d spatial axes", len(vox), spatial)
	}

	h.SpaceDimension = spatial
	h.SpaceUnits = make([]string, spatial)
	for i := range h.SpaceUnits {
		h.SpaceUnits[i] = "mm"
	}
	for i, v := range vox {
		d := make(nrrd.Vector, spatial)
		d[i] = v
		h.SpaceDirections = append(h.SpaceDirections, d)
		h.Kinds = append(h.Kinds, nrrd.KindDomain)
	}
	if s.complex {
		h.SpaceDirections = append([]nrrd.Vector{nil}, h.SpaceDirections...)
		h.Kinds = append([]nrrd.Kind{nrrd.KindComplex}, h.Kinds...)
	}
	return h, nil
}

// splitList accepts "[1 2 3]", "1,2,3" or "1 2 3".
func splitList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, errors.New("missing close delimiter ']'")
		}
		s = s[1:end]
	}
	toks := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(toks) == 0 {
		return nil, errors.New("empty list")
	}
	return toks, nil
}

func parseIntList(s string) ([]int, error) {
	toks, err := splitList(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(toks))
	for i, t := range toks {
		if out[i], err = strconv.Atoi(t); err != nil {
			return nil, fmt.Errorf("failed to parse %q: %w", t, err)
		}
	}
	return out, nil
}

func parseFloatList(s string) ([]float64, error) {
	toks, err := splitList(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(toks))
	for i, t := range toks {
		if out[i], err = strconv.ParseFloat(t, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %q: %w", t, err)
		}
	}
	return out, nil
}

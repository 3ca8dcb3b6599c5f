package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nrrd/internal/logger"
	"github.com/samcharles93/nrrd/pkg/nrrd"
)

func convertCmd() *cli.Command {
	var (
		encoding string
		detached bool
	)

	return &cli.Command{
		Name:      "convert",
		Usage:     "Re-encode a volume as attached or detached raw, gzip or bzip2",
		ArgsUsage: "<in> <out>",
		Flags: append(readFlags(),
			&cli.StringFlag{
				Name:        "encoding",
				Aliases:     []string{"e"},
				Usage:       "output encoding (raw, gzip, bzip2)",
				Value:       "raw",
				Destination: &encoding,
			},
			&cli.BoolFlag{
				Name:        "detached",
				Usage:       "write <out>.nhdr plus a data file instead of <out>.nrrd",
				Destination: &detached,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if cmd.NArg() != 2 {
				return cli.Exit("convert: expected input and output paths", 1)
			}
			applyConvertConfig(cmd, appConfig, &encoding)
			enc, err := nrrd.ParseEncoding(encoding)
			if err != nil {
				return cli.Exit("convert: "+err.Error(), 1)
			}

			ro := readOptions(cmd)
			ro.Logger = log
			res, err := convertVolume(cmd.Args().Get(0), cmd.Args().Get(1), ro, nrrd.WriteOptions{
				Encoding: enc,
				Detached: detached,
				Logger:   log,
			})
			if err != nil {
				return err
			}
			log.Info("converted", "header", res.HeaderPath, "data", res.DataPath, "encoding", enc.String())
			return nil
		},
	}
}

// convertVolume decodes in with its own element type and writes it to out.
func convertVolume(in, out string, ro nrrd.ReadOptions, wo nrrd.WriteOptions) (nrrd.WriteResult, error) {
	h, err := nrrd.ReadHeader(in, ro)
	if err != nil {
		return nrrd.WriteResult{}, err
	}
	switch h.Type {
	case nrrd.DTypeInt8:
		return convertAs[int8](in, out, ro, wo)
	case nrrd.DTypeUint8:
		return convertAs[uint8](in, out, ro, wo)
	case nrrd.DTypeInt16:
		return convertAs[int16](in, out, ro, wo)
	case nrrd.DTypeUint16:
		return convertAs[uint16](in, out, ro, wo)
	case nrrd.DTypeInt32:
		return convertAs[int32](in, out, ro, wo)
	case nrrd.DTypeUint32:
		return convertAs[uint32](in, out, ro, wo)
	case nrrd.DTypeInt64:
		return convertAs[int64](in, out, ro, wo)
	case nrrd.DTypeUint64:
		return convertAs[uint64](in, out, ro, wo)
	case nrrd.DTypeFloat32:
		return convertAs[float32](in, out, ro, wo)
	case nrrd.DTypeFloat64:
		return convertAs[float64](in, out, ro, wo)
	default:
		return nrrd.WriteResult{}, fmt.Errorf("convert %s: %w", in, nrrd.ErrBlockDecode)
	}
}

func convertAs[T nrrd.Number](in, out string, ro nrrd.ReadOptions, wo nrrd.WriteOptions) (nrrd.WriteResult, error) {
	data, h, err := nrrd.ReadTyped[T](in, ro)
	if err != nil {
		return nrrd.WriteResult{}, err
	}
	return nrrd.Write(out, h, data, wo)
}

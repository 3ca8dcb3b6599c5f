package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/nrrd/internal/inspect"
	"github.com/samcharles93/nrrd/internal/logger"
	"github.com/samcharles93/nrrd/pkg/nrrd"
)

func inspectCmd() *cli.Command {
	var (
		format   string
		checksum bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show a parsed header, its data files and payload size",
		ArgsUsage: "<file.nrrd|file.nhdr>...",
		Flags: append(readFlags(),
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"o"},
				Usage:       "output format (text, header, json, yaml)",
				Value:       "text",
				Destination: &format,
			},
			&cli.BoolFlag{
				Name:        "checksum",
				Usage:       "read the payload and print its BLAKE3 digest",
				Destination: &checksum,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if cmd.NArg() == 0 {
				return cli.Exit("inspect: expected at least one path", 1)
			}
			opts := readOptions(cmd)
			opts.Logger = log

			sums := make([]inspect.Summary, 0, cmd.NArg())
			for _, p := range cmd.Args().Slice() {
				s, err := summarize(ctx, p, opts, checksum)
				if err != nil {
					return err
				}
				sums = append(sums, s)
			}
			return writeSummaries(cmd.Root().Writer, format, sums)
		},
	}
}

func summarize(ctx context.Context, path string, opts nrrd.ReadOptions, checksum bool) (inspect.Summary, error) {
	h, rest, err := nrrd.ReadHeaderLines(path, opts)
	if err != nil {
		return inspect.Summary{}, err
	}
	s, err := inspect.Summarize(path, h)
	if err != nil {
		return inspect.Summary{}, err
	}
	s.Unconsumed = rest
	if checksum {
		b, _, err := nrrd.ReadPayloadContext(ctx, path, opts)
		if err != nil {
			return inspect.Summary{}, err
		}
		s.Checksum = inspect.Checksum(b)
	}
	return s, nil
}

func writeSummaries(w io.Writer, format string, sums []inspect.Summary) error {
	switch format {
	case "json":
		var v any = sums
		if len(sums) == 1 {
			v = sums[0]
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, s := range sums {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return enc.Close()
	case "header":
		for _, s := range sums {
			for _, l := range s.HeaderLines {
				if _, err := fmt.Fprintln(w, l); err != nil {
					return err
				}
			}
		}
		return nil
	case "text", "":
		for i, s := range sums {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := inspect.WriteText(w, s); err != nil {
				return err
			}
		}
		return nil
	default:
		return cli.Exit(fmt.Sprintf("inspect: unknown format %q", format), 1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nrrd/internal/logger"
	"github.com/samcharles93/nrrd/pkg/nrrd"
)

func renameCmd() *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a detached .nhdr together with its data file",
		ArgsUsage: "<src.nhdr> <dst.nhdr>",
		Flags:     readFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if cmd.NArg() != 2 {
				return cli.Exit("rename: expected source and destination paths", 1)
			}
			hdr, data, err := renameDetached(cmd.Args().Get(0), cmd.Args().Get(1), readOptions(cmd))
			if err != nil {
				return err
			}
			log.Info("renamed", "header", hdr, "data", data)
			return nil
		},
	}
}

// renameDetached moves src's single data file next to dst, named after dst
// with the encoding's extension, then writes the rewritten header at dst
// and removes src. Both paths get the .nhdr extension.
func renameDetached(src, dst string, opts nrrd.ReadOptions) (string, string, error) {
	srcHdr := nrrd.BasePath(src) + ".nhdr"
	dstHdr := nrrd.BasePath(dst) + ".nhdr"

	h, err := nrrd.ReadHeader(srcHdr, opts)
	if err != nil {
		return "", "", err
	}
	if _, ok := h.DataFile.(nrrd.SingleFile); !ok {
		if h.Attached() {
			return "", "", fmt.Errorf("rename: %s has no data file directive", srcHdr)
		}
		return "", "", errors.New("rename: only single-file detached headers are supported")
	}
	paths, err := nrrd.DataFilePaths(srcHdr, h)
	if err != nil {
		return "", "", err
	}
	srcData := paths[0]
	if _, err := os.Stat(srcData); err != nil {
		return "", "", &nrrd.PathError{Op: "rename", Path: srcData, Err: nrrd.ErrMissingDataFile}
	}

	dstData := nrrd.BasePath(dst) + h.Encoding.FileExt()
	h.DataFile = nrrd.SingleFile{Path: filepath.Base(dstData)}

	if err := os.Rename(srcData, dstData); err != nil {
		return "", "", err
	}
	if err := nrrd.WriteHeader(dstHdr, h); err != nil {
		// put the data file back so the source header stays valid
		_ = os.Rename(dstData, srcData)
		return "", "", err
	}
	if filepath.Clean(srcHdr) != filepath.Clean(dstHdr) {
		if err := os.Remove(srcHdr); err != nil {
			return "", "", err
		}
	}
	return dstHdr, dstData, nil
}

package nrrd

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// headerBlock is the text section of a header file.
type headerBlock struct {
	lines []string
	// offset is the byte position just past the blank terminator.
	offset int64
	// terminated is false when EOF came before a blank line.
	terminated bool
}

// readUntilBlank collects lines up to the first blank line or EOF.
func readUntilBlank(r *bufio.Reader) (headerBlock, error) {
	var hb headerBlock
	for {
		line, err := r.ReadString('\n')
		hb.offset += int64(len(line))
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" && strings.HasSuffix(line, "\n") {
			hb.terminated = true
			return hb, nil
		}
		if trimmed != "" {
			hb.lines = append(hb.lines, trimmed)
		}
		if errors.Is(err, io.EOF) {
			return hb, nil
		}
		if err != nil {
			return hb, err
		}
	}
}

// skipLines discards n newline-terminated lines.
func skipLines(r *bufio.Reader, n int) error {
	for range n {
		for {
			_, err := r.ReadSlice('\n')
			if err == nil {
				break
			}
			if !errors.Is(err, bufio.ErrBufferFull) {
				return err
			}
		}
	}
	return nil
}

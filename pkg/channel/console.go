// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package channel provides the I/O channels a machine exchanges values
// through: an interactive console, fixed input sequences, the feedback
// hand-off used by amplifier rings, and grouped output decoding for front
// ends that consume output in pairs or triples.
package channel

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/machine"
)

// Console reads one integer per line and prints each output on its own line.
type Console struct {
	Prompt string

	reader *bufio.Reader
	writer io.Writer
}

// NewConsole returns a console over r and w. If r is already a
// *bufio.Reader it is used as is, so a console can share stdin with a REPL.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{reader: bufio.NewReader(r), writer: w}
}

// Input blocks until a line is available. EOF yields machine.EndOfInput.
func (c *Console) Input() (int64, error) {
	if c.Prompt != "" {
		if _, err := io.WriteString(c.writer, c.Prompt); err != nil {
			return 0, err
		}
	}

	for {
		line, err := c.reader.ReadString('\n')
		text := strings.TrimSpace(line)

		if len(text) > 0 {
			value, perr := encoding.DecodeInt(text)

			if perr != nil {
				return 0, fmt.Errorf("console: %w", perr)
			}

			return value, nil
		}

		if errors.Is(err, io.EOF) {
			return 0, machine.EndOfInput
		} else if err != nil {
			return 0, err
		}
	}
}

func (c *Console) Output(value int64) error {
	_, err := fmt.Fprintln(c.writer, value)
	return err
}

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

package encoding

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Programs are usually a single long line.
const maxLine = 1 << 24

// Patch is a single memory cell override applied before a program runs.
type Patch struct {
	Addr  int64
	Value int64
}

// ParseProgram reads comma separated integers. Lines are concatenated, so a
// program may be split anywhere a comma would go; blank lines and a trailing
// comma are ignored.
func ParseProgram(reader io.Reader) ([]int64, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	var program []int64

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())

		if len(text) == 0 {
			continue
		}

		fields := strings.Split(text, ",")

		for i, field := range fields {
			field = strings.TrimSpace(field)

			if len(field) == 0 && i == len(fields)-1 {
				break
			}

			value, err := strconv.ParseInt(field, 10, 64)

			if err != nil {
				return nil, fmt.Errorf(
					"line %d, cell %d: invalid integer %q",
					line, len(program), field,
				)
			}

			program = append(program, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(program) == 0 {
		return nil, errors.New("Empty program")
	}

	return program, nil
}

// ParseList decodes a short comma separated list such as a phase setting.
func ParseList(s string) ([]int64, error) {
	return ParseProgram(strings.NewReader(s))
}

// ParsePatches decodes a list of addr=value pairs: 1=12,2=2
func ParsePatches(s string) ([]Patch, error) {
	var patches []Patch

	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)

		if len(field) == 0 {
			continue
		}

		addr, value, ok := strings.Cut(field, "=")

		if !ok {
			return nil, fmt.Errorf("Invalid patch %q", field)
		}

		a, err := DecodeAddr(addr)

		if err != nil {
			return nil, err
		}

		v, err := DecodeInt(value)

		if err != nil {
			return nil, err
		}

		patches = append(patches, Patch{Addr: a, Value: v})
	}

	return patches, nil
}

// Decodes a hexidecimal string in the formats: 0xFF, xFF
func DecodeHex(s string) (int64, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	return strconv.ParseInt(s, 0, 64)
}

// Decodes a base-10 string in the formats: #123, 123, -123
func DecodeInt(s string) (int64, error) {
	s = strings.TrimSpace(s)

	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	return strconv.ParseInt(s, 10, 64)
}

// DecodeAddr accepts either a hex or a base-10 address. Negative addresses
// are rejected.
func DecodeAddr(s string) (int64, error) {
	s = strings.TrimSpace(s)

	var addr int64
	var err error

	if strings.ContainsAny(s, "xX") {
		addr, err = DecodeHex(s)
	} else {
		addr, err = DecodeInt(s)
	}

	if err != nil {
		return 0, err
	}

	if addr < 0 {
		return 0, fmt.Errorf("Invalid address %d", addr)
	}

	return addr, nil
}

package arena

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type opcode int

const (
	opWait opcode = iota
	opDrive
	opTurn
	opAim
)

var opcodes = map[string]opcode{
	"wait":  opWait,
	"drive": opDrive,
	"turn":  opTurn,
	"aim":   opAim,
}

type instruction struct {
	op  opcode
	arg int32
}

// Program is a bot's looping instruction list.
type Program struct {
	Name         string
	instructions []instruction
}

func (p *Program) Len() int {
	return len(p.instructions)
}

func LoadProgram(path string) (*Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseProgram(path, file)
}

// ParseProgram reads one instruction per line:
//
//	drive N   move N units along the hull heading (negative reverses)
//	turn N    rotate the hull by N heading units
//	aim N     rotate the turret by N heading units
//	wait      do nothing
//
// Blank lines and anything after '#' are ignored.
func ParseProgram(name string, r io.Reader) (*Program, error) {
	p := &Program{Name: name}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		op, ok := opcodes[strings.ToLower(fields[0])]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown instruction %q", line, fields[0])
		}
		in := instruction{op: op}
		switch {
		case op == opWait && len(fields) != 1:
			return nil, fmt.Errorf("line %d: wait takes no argument", line)
		case op != opWait && len(fields) != 2:
			return nil, fmt.Errorf("line %d: %s takes one argument", line, fields[0])
		case op != opWait:
			arg, err := strconv.ParseInt(fields[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			in.arg = int32(arg)
		}
		p.instructions = append(p.instructions, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.instructions) == 0 {
		return nil, fmt.Errorf("%s: empty program", name)
	}
	return p, nil
}

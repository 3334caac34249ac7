// Package qasm implements the OPENQASM-2.0-subset lexer/parser the
// circuit input format uses: a fixed header, one or more qreg
// declarations concatenated into a single global qubit space, then
// one gate per line over the lowercase mnemonics of every
// soam/gate.Kind variant. Dumping reuses soam/seq.Sequence.Dump,
// which already renders this same subset under a single "q" register.
package qasm

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/kegliz/soamqc/soam"
	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/seq"
)

var (
	qregRe = regexp.MustCompile(`^qreg\s+(\w+)\s*\[\s*(\d+)\s*\]\s*;$`)
	gateRe = regexp.MustCompile(`^(\w+)\s*(?:\(([^)]*)\))?\s+(\w+\[\d+\](?:\s*,\s*\w+\[\d+\])*)\s*;$`)
	argRe  = regexp.MustCompile(`^(\w+)\[(\d+)\]$`)

	mnemonics = buildMnemonicTable()
)

func buildMnemonicTable() map[string]gate.Kind {
	m := make(map[string]gate.Kind)
	for k := gate.CCX; k <= gate.U; k++ {
		m[k.String()] = k
	}
	return m
}

// ParseFile reads and parses the QASM file at path.
func ParseFile(path string) (seq.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return seq.Sequence{}, fmt.Errorf("%w: opening %s: %v", soam.ErrIO, path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads OPENQASM 2.0 text from r. Multiple qreg declarations
// are concatenated in declaration order into one global qubit index
// space; a gate's qubit operands are resolved against whichever
// register they name.
func Parse(r io.Reader) (seq.Sequence, error) {
	offsets := map[string]int{}
	numQubits := 0
	var gates []gate.Gate

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "OPENQASM 2.0;" || strings.HasPrefix(line, "include ") {
			continue
		}

		if m := qregRe.FindStringSubmatch(line); m != nil {
			size, err := strconv.Atoi(m[2])
			if err != nil {
				return seq.Sequence{}, fmt.Errorf("%w: line %d: bad qreg size: %v", soam.ErrParse, lineNo, err)
			}
			offsets[m[1]] = numQubits
			numQubits += size
			continue
		}

		g, err := parseGateLine(line, offsets)
		if err != nil {
			return seq.Sequence{}, fmt.Errorf("%w: line %d: %v", soam.ErrParse, lineNo, err)
		}
		gates = append(gates, g)
	}
	if err := scanner.Err(); err != nil {
		return seq.Sequence{}, fmt.Errorf("%w: %v", soam.ErrIO, err)
	}
	return seq.New(gates, numQubits), nil
}

func parseGateLine(line string, offsets map[string]int) (gate.Gate, error) {
	m := gateRe.FindStringSubmatch(line)
	if m == nil {
		return gate.Gate{}, fmt.Errorf("malformed gate line %q", line)
	}
	name, paramStr, argStr := strings.ToLower(m[1]), m[2], m[3]

	kind, ok := mnemonics[name]
	if !ok {
		return gate.Gate{}, fmt.Errorf("unknown mnemonic %q", name)
	}

	var qubits []int
	for _, arg := range strings.Split(argStr, ",") {
		arg = strings.TrimSpace(arg)
		am := argRe.FindStringSubmatch(arg)
		if am == nil {
			return gate.Gate{}, fmt.Errorf("malformed qubit operand %q", arg)
		}
		offset, known := offsets[am[1]]
		if !known {
			return gate.Gate{}, fmt.Errorf("reference to undeclared register %q", am[1])
		}
		idx, err := strconv.Atoi(am[2])
		if err != nil {
			return gate.Gate{}, fmt.Errorf("malformed qubit index %q", arg)
		}
		qubits = append(qubits, offset+idx)
	}

	var params []float64
	if paramStr != "" {
		for _, p := range strings.Split(paramStr, ",") {
			v, err := parseAngle(p)
			if err != nil {
				return gate.Gate{}, fmt.Errorf("malformed angle %q: %v", p, err)
			}
			params = append(params, v)
		}
	}

	return buildGate(kind, qubits, params)
}

func buildGate(kind gate.Kind, q []int, p []float64) (gate.Gate, error) {
	need := func(nq, np int) error {
		if len(q) != nq {
			return fmt.Errorf("%s expects %d qubit operand(s), got %d", kind, nq, len(q))
		}
		if len(p) != np {
			return fmt.Errorf("%s expects %d angle parameter(s), got %d", kind, np, len(p))
		}
		return nil
	}
	switch kind {
	case gate.CCX:
		if err := need(3, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewCCX(q[0], q[1], q[2]), nil
	case gate.CCZ:
		if err := need(3, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewCCZ(q[0], q[1], q[2]), nil
	case gate.CX:
		if err := need(2, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewCX(q[0], q[1]), nil
	case gate.CZ:
		if err := need(2, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewCZ(q[0], q[1]), nil
	case gate.SWAP:
		if err := need(2, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewSwap(q[0], q[1]), nil
	case gate.H:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewH(q[0]), nil
	case gate.X:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewX(q[0]), nil
	case gate.Y:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewY(q[0]), nil
	case gate.Z:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewZ(q[0]), nil
	case gate.S:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewS(q[0]), nil
	case gate.Sdg:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewSdg(q[0]), nil
	case gate.SqrtX:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewSqrtX(q[0]), nil
	case gate.SqrtXdg:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewSqrtXdg(q[0]), nil
	case gate.T:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewT(q[0]), nil
	case gate.Tdg:
		if err := need(1, 0); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewTdg(q[0]), nil
	case gate.RX:
		if err := need(1, 1); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewRX(normalizeAngle(p[0]), q[0]), nil
	case gate.RY:
		if err := need(1, 1); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewRY(normalizeAngle(p[0]), q[0]), nil
	case gate.RZ:
		if err := need(1, 1); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewRZ(normalizeAngle(p[0]), q[0]), nil
	case gate.U:
		if err := need(1, 3); err != nil {
			return gate.Gate{}, err
		}
		return gate.NewU(normalizeAngle(p[0]), normalizeAngle(p[1]), normalizeAngle(p[2]), q[0]), nil
	default:
		return gate.Gate{}, fmt.Errorf("unsupported gate kind %v", kind)
	}
}

// normalizeAngle reduces theta into [0, 2*pi), per the input format's
// negative-angle normalization rule.
func normalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

// parseAngle evaluates a small arithmetic subset over PI/π literals:
// an optional leading '-', '*'-separated factors (each a float or a
// pi literal), and an optional '/' divisor.
func parseAngle(expr string) (float64, error) {
	expr = strings.TrimSpace(expr)
	expr = strings.ReplaceAll(expr, "π", "pi")

	var divisor float64 = 1
	if i := strings.IndexByte(expr, '/'); i >= 0 {
		d, err := strconv.ParseFloat(strings.TrimSpace(expr[i+1:]), 64)
		if err != nil {
			return 0, err
		}
		divisor = d
		expr = expr[:i]
	}

	product := 1.0
	for _, factor := range strings.Split(expr, "*") {
		factor = strings.TrimSpace(factor)
		neg := false
		for strings.HasPrefix(factor, "-") {
			neg = !neg
			factor = strings.TrimSpace(factor[1:])
		}
		var v float64
		if strings.EqualFold(factor, "pi") {
			v = math.Pi
		} else {
			f, err := strconv.ParseFloat(factor, 64)
			if err != nil {
				return 0, err
			}
			v = f
		}
		if neg {
			v = -v
		}
		product *= v
	}
	return product / divisor, nil
}

// Dump renders s as OPENQASM 2.0 text under a single flattened "q"
// register (the Go counterpart of the original multi-qreg input
// format collapses to one register on output, matching
// soam/seq.Sequence.Dump exactly).
func Dump(s seq.Sequence) string { return s.Dump() }

// DumpToFile writes Dump(s) to path.
func DumpToFile(s seq.Sequence, path string) error {
	if err := os.WriteFile(path, []byte(Dump(s)), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", soam.ErrIO, path, err)
	}
	return nil
}

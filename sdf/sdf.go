package sdf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/molshape/molshape/gaussian"
)

// ParseError reports a malformed connection table. Record counts from 1 in
// file order, Line counts from 1 within the record.
type ParseError struct {
	Record int
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sdf: record %d, line %d: %s", e.Record, e.Line, e.Reason)
}

type atom struct {
	pos     r3.Vec
	element string
	charge  int
}

type bond struct {
	a, b  int // 0-based atom indices
	order int // 1-3, 4 = aromatic
}

// record is one parsed connection table, all atoms included.
type record struct {
	name  string
	atoms []atom
	bonds []bond
}

// ReadFile reads all molecules from an SDF file. Files named *.gz are
// gunzipped while reading.
func ReadFile(path string, opts ...Option) ([]*gaussian.Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sdf: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("sdf: %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return Read(r, opts...)
}

// Read parses every record in the stream. A fallback name mol<N> is
// assigned when a record's title line is blank.
func Read(r io.Reader, opts ...Option) ([]*gaussian.Molecule, error) {
	typer := NewTyper(opts...)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var mols []*gaussian.Molecule
	recno := 0
	for {
		block, ok := nextBlock(sc)
		if !ok {
			break
		}
		recno++

		rec, err := parseRecord(block, recno)
		if err != nil {
			return nil, err
		}
		mol, err := typer.Molecule(rec)
		if err != nil {
			return nil, fmt.Errorf("sdf: record %d (%s): %w", recno, rec.name, err)
		}
		mols = append(mols, mol)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sdf: %w", err)
	}
	return mols, nil
}

// nextBlock collects the lines of one record, up to its $$$$ terminator or
// EOF. Blocks holding nothing but blank lines (trailing whitespace in the
// file) are skipped.
func nextBlock(sc *bufio.Scanner) ([]string, bool) {
	var lines []string
	content := false
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "$$$$" {
			if !content {
				lines = lines[:0]
				continue
			}
			return lines, true
		}
		if strings.TrimSpace(line) != "" {
			content = true
		}
		lines = append(lines, line)
	}
	if !content {
		return nil, false
	}
	return lines, true
}

func parseRecord(lines []string, recno int) (*record, error) {
	fail := func(line int, format string, args ...any) error {
		return &ParseError{Record: recno, Line: line, Reason: fmt.Sprintf(format, args...)}
	}

	// Header: title, program line, comment, counts.
	if len(lines) < 4 {
		return nil, fail(len(lines), "truncated header")
	}
	natoms, err := fixedInt(lines[3], 0, 3)
	if err != nil {
		return nil, fail(4, "bad atom count: %v", err)
	}
	nbonds, err := fixedInt(lines[3], 3, 6)
	if err != nil {
		return nil, fail(4, "bad bond count: %v", err)
	}
	if len(lines) < 4+natoms+nbonds {
		return nil, fail(len(lines), "truncated connection table: want %d atoms, %d bonds", natoms, nbonds)
	}

	rec := &record{
		name:  strings.TrimSpace(lines[0]),
		atoms: make([]atom, 0, natoms),
		bonds: make([]bond, 0, nbonds),
	}
	if rec.name == "" {
		rec.name = fmt.Sprintf("mol%d", recno)
	}

	for i := 0; i < natoms; i++ {
		a, err := parseAtom(lines[4+i])
		if err != nil {
			return nil, fail(5+i, "atom %d: %v", i+1, err)
		}
		rec.atoms = append(rec.atoms, a)
	}
	for i := 0; i < nbonds; i++ {
		b, err := parseBond(lines[4+natoms+i], natoms)
		if err != nil {
			return nil, fail(5+natoms+i, "bond %d: %v", i+1, err)
		}
		rec.bonds = append(rec.bonds, b)
	}

	// Property block until M END; the SDF data items after it carry
	// nothing the shape model needs.
	for i := 4 + natoms + nbonds; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "M  END") {
			break
		}
		if strings.HasPrefix(line, "M  CHG") {
			if err := applyCharges(rec, line); err != nil {
				return nil, fail(i+1, "%v", err)
			}
		}
	}
	return rec, nil
}

func fixedInt(line string, from, to int) (int, error) {
	if len(line) < to {
		return 0, fmt.Errorf("line too short (%d chars)", len(line))
	}
	return strconv.Atoi(strings.TrimSpace(line[from:to]))
}

func fixedFloat(line string, from, to int) (float64, error) {
	if len(line) < to {
		return 0, fmt.Errorf("line too short (%d chars)", len(line))
	}
	return strconv.ParseFloat(strings.TrimSpace(line[from:to]), 64)
}

func parseAtom(line string) (atom, error) {
	x, err := fixedFloat(line, 0, 10)
	if err != nil {
		return atom{}, fmt.Errorf("x: %v", err)
	}
	y, err := fixedFloat(line, 10, 20)
	if err != nil {
		return atom{}, fmt.Errorf("y: %v", err)
	}
	z, err := fixedFloat(line, 20, 30)
	if err != nil {
		return atom{}, fmt.Errorf("z: %v", err)
	}
	if len(line) < 34 {
		return atom{}, fmt.Errorf("missing element symbol")
	}
	elem := strings.TrimSpace(line[31:34])
	if elem == "" {
		return atom{}, fmt.Errorf("empty element symbol")
	}
	return atom{pos: r3.Vec{X: x, Y: y, Z: z}, element: elem}, nil
}

func parseBond(line string, natoms int) (bond, error) {
	a, err := fixedInt(line, 0, 3)
	if err != nil {
		return bond{}, fmt.Errorf("from: %v", err)
	}
	b, err := fixedInt(line, 3, 6)
	if err != nil {
		return bond{}, fmt.Errorf("to: %v", err)
	}
	order, err := fixedInt(line, 6, 9)
	if err != nil {
		return bond{}, fmt.Errorf("order: %v", err)
	}
	if a < 1 || a > natoms || b < 1 || b > natoms {
		return bond{}, fmt.Errorf("atom index out of range: %d-%d", a, b)
	}
	return bond{a: a - 1, b: b - 1, order: order}, nil
}

// applyCharges parses an "M  CHG nn8 aaa vvv ..." property line.
func applyCharges(rec *record, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return fmt.Errorf("malformed M CHG line")
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || len(fields) < 3+2*n {
		return fmt.Errorf("malformed M CHG line")
	}
	for i := 0; i < n; i++ {
		idx, err := strconv.Atoi(fields[3+2*i])
		if err != nil || idx < 1 || idx > len(rec.atoms) {
			return fmt.Errorf("M CHG atom index out of range")
		}
		chg, err := strconv.Atoi(fields[4+2*i])
		if err != nil {
			return fmt.Errorf("malformed M CHG charge")
		}
		rec.atoms[idx-1].charge = chg
	}
	return nil
}

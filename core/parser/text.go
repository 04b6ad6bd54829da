package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrSyntax is returned for malformed input.
	ErrSyntax = errors.New("parser: syntax error")
	// ErrUnknownStation is returned when a record names an undeclared station.
	ErrUnknownStation = errors.New("parser: unknown station")
)

type block int

const (
	noBlock block = iota
	stationsBlock
	linesBlock
	trainsBlock
	passengersBlock
)

var blocks = map[string]block{
	"Stations":   stationsBlock,
	"Lines":      linesBlock,
	"Trains":     trainsBlock,
	"Passengers": passengersBlock,
}

// fields per record, name included
var arity = map[block]int{
	stationsBlock:   2,
	linesBlock:      5,
	trainsBlock:     4,
	passengersBlock: 5,
}

// ParseText reads the block format into a Document.
func ParseText(r io.Reader) (Document, error) {
	var (
		doc Document
		cur = noBlock
		no  int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		no++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			name, ok := strings.CutSuffix(line[1:], "]")
			b, known := blocks[name]
			if !ok || !known {
				return doc, fmt.Errorf("%w: line %d: unknown block %q", ErrSyntax, no, line)
			}
			cur = b
			continue
		}
		if cur == noBlock {
			return doc, fmt.Errorf("%w: line %d: record outside of a block", ErrSyntax, no)
		}
		f := strings.Fields(line)
		if len(f) != arity[cur] {
			return doc, fmt.Errorf("%w: line %d: %q has %d fields, want %d", ErrSyntax, no, line, len(f), arity[cur])
		}
		if err := doc.appendRecord(cur, f); err != nil {
			return doc, fmt.Errorf("%w: line %d: %v", ErrSyntax, no, err)
		}
	}
	if err := sc.Err(); err != nil {
		return doc, fmt.Errorf("read network: %w", err)
	}
	return doc, nil
}

func (d *Document) appendRecord(b block, f []string) error {
	var p fieldParser
	switch b {
	case stationsBlock:
		d.Stations = append(d.Stations, StationRecord{Name: f[0], Capacity: p.atoi(f[1])})
	case linesBlock:
		d.Lines = append(d.Lines, LineRecord{Name: f[0], From: f[1], To: f[2], Distance: p.atof(f[3]), Capacity: p.atoi(f[4])})
	case trainsBlock:
		d.Trains = append(d.Trains, TrainRecord{Name: f[0], Start: f[1], Speed: p.atof(f[2]), Capacity: p.atoi(f[3])})
	case passengersBlock:
		d.Passengers = append(d.Passengers, PassengerRecord{Name: f[0], From: f[1], To: f[2], Size: p.atoi(f[3]), Arrival: p.atoi(f[4])})
	}
	return p.err
}

// fieldParser keeps the first conversion error.
type fieldParser struct{ err error }

func (p *fieldParser) atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid integer %q", s)
	}
	return v
}

func (p *fieldParser) atof(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid number %q", s)
	}
	return v
}

// WriteText writes doc in the block format.
func WriteText(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "[Stations]")
	for _, s := range doc.Stations {
		fmt.Fprintf(bw, "%s %d\n", s.Name, s.Capacity)
	}
	fmt.Fprintln(bw, "\n[Lines]")
	for _, l := range doc.Lines {
		fmt.Fprintf(bw, "%s %s %s %s %d\n", l.Name, l.From, l.To, formatFloat(l.Distance), l.Capacity)
	}
	fmt.Fprintln(bw, "\n[Trains]")
	for _, t := range doc.Trains {
		start := t.Start
		if start == "" {
			start = AnyStart
		}
		fmt.Fprintf(bw, "%s %s %s %d\n", t.Name, start, formatFloat(t.Speed), t.Capacity)
	}
	fmt.Fprintln(bw, "\n[Passengers]")
	for _, p := range doc.Passengers {
		fmt.Fprintf(bw, "%s %s %s %d %d\n", p.Name, p.From, p.To, p.Size, p.Arrival)
	}
	return bw.Flush()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Package conll09 reads and writes sentences in the CoNLL-2009 format:
// one token per line, 14 tab separated columns, a blank line after each
// sentence.
package conll09

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/loike/mate-tools/pkg/mate/internalerr"
	"github.com/loike/mate-tools/pkg/mate/sentence"
)

// Column indexes
const (
	colID = iota
	colForm
	colLemma
	colPLemma
	colPOS
	colPPOS
	colFeat
	colPFeat
	colHead
	colPHead
	colDepRel
	colPDepRel
	colFillPred
	colPred

	NumColumns = colPred + 1
)

const (
	FieldSeparator = "\t"
	Empty          = "_"
)

// minColumns is the number of columns a row needs to carry every layer.
const minColumns = colPDepRel + 1

// Reader reads sentences one at a time.
type Reader struct {
	scanner *bufio.Scanner
	line    int

	// PreferGold reads the gold columns (LEMMA, POS, FEAT, HEAD, DEPREL)
	// first and the predicted ones as fallback. By default predicted
	// columns win.
	PreferGold bool
}

// NewReader creates a reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Reader{scanner: sc}
}

// Read returns the next sentence with the root token prepended. A layer
// is set only when at least one token has a value for it. Read returns
// io.EOF when the input is exhausted.
func (r *Reader) Read() (*sentence.Sentence, error) {
	var rows [][]string
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(rows) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, FieldSeparator)
		if len(fields) < minColumns {
			return nil, fmt.Errorf("%w: line %d: expected at least %d columns, got %d",
				internalerr.ErrInvalidInput, r.line, minColumns, len(fields))
		}
		if want := strconv.Itoa(len(rows) + 1); fields[colID] != want {
			return nil, fmt.Errorf("%w: line %d: expected token id %s, got %q",
				internalerr.ErrInvalidInput, r.line, want, fields[colID])
		}
		rows = append(rows, fields)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, io.EOF
	}
	return r.build(rows)
}

// ReadAll reads every remaining sentence.
func (r *Reader) ReadAll() ([]*sentence.Sentence, error) {
	var out []*sentence.Sentence
	for {
		s, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
}

func (r *Reader) build(rows [][]string) (*sentence.Sentence, error) {
	forms := make([]string, 0, len(rows)+1)
	forms = append(forms, sentence.RootForm)
	for _, row := range rows {
		forms = append(forms, row[colForm])
	}
	s := sentence.New(forms)

	pick := func(gold, predicted int) int {
		if r.PreferGold {
			return gold
		}
		return predicted
	}
	other := func(col int) int {
		switch col {
		case colLemma, colPOS, colFeat, colHead, colDepRel:
			return col + 1
		}
		return col - 1
	}

	layer := func(col int, root string) []string {
		values := make([]string, len(rows)+1)
		values[0] = root
		set := false
		for i, row := range rows {
			v := row[col]
			if v == Empty {
				v = row[other(col)]
			}
			if v != Empty {
				values[i+1] = v
				set = true
			}
		}
		if !set {
			return nil
		}
		return values
	}

	s.Lemmas = layer(pick(colLemma, colPLemma), sentence.RootLemma)
	s.POS = layer(pick(colPOS, colPPOS), sentence.RootPOS)
	s.Feats = layer(pick(colFeat, colPFeat), sentence.RootFeats)
	s.Labels = layer(pick(colDepRel, colPDepRel), "")

	heads := layer(pick(colHead, colPHead), "-1")
	if heads != nil {
		s.Heads = make([]int, len(heads))
		for i, h := range heads {
			if h == "" {
				return nil, fmt.Errorf("%w: sentence ending at line %d: token %d has no head",
					internalerr.ErrInvalidInput, r.line, i)
			}
			n, err := strconv.Atoi(h)
			if err != nil || (i > 0 && (n < 0 || n >= len(heads))) {
				return nil, fmt.Errorf("%w: sentence ending at line %d: bad head %q for token %d",
					internalerr.ErrInvalidInput, r.line, h, i)
			}
			s.Heads[i] = n
		}
	}
	return s, nil
}

// Writer writes sentences with the annotation in the predicted columns.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes s without its root token, followed by a blank line.
func (w *Writer) Write(s *sentence.Sentence) error {
	if _, err := io.WriteString(w.w, Format(s)); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush writes any buffered data.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Format renders the rows of s, one line per non-root token.
func Format(s *sentence.Sentence) string {
	var b strings.Builder
	for i := 1; i < s.Len(); i++ {
		fields := make([]string, NumColumns)
		for c := range fields {
			fields[c] = Empty
		}
		fields[colID] = strconv.Itoa(i)
		fields[colForm] = s.Forms[i]
		fields[colPLemma] = value(s.Lemmas, i)
		fields[colPPOS] = value(s.POS, i)
		fields[colPFeat] = value(s.Feats, i)
		fields[colPDepRel] = value(s.Labels, i)
		if i < len(s.Heads) {
			fields[colPHead] = strconv.Itoa(s.Heads[i])
		}
		b.WriteString(strings.Join(fields, FieldSeparator))
		b.WriteByte('\n')
	}
	return b.String()
}

func value(layer []string, i int) string {
	if i >= len(layer) || layer[i] == "" {
		return Empty
	}
	return layer[i]
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/loike/mate-tools/internal/corpus"
	"github.com/loike/mate-tools/internal/htmltext"
	"github.com/loike/mate-tools/pkg/mate/config"
	"github.com/loike/mate-tools/pkg/mate/conll09"
	"github.com/loike/mate-tools/pkg/mate/preprocess"
	"github.com/loike/mate-tools/pkg/mate/sentence"
	"github.com/loike/mate-tools/pkg/mate/store"
	"github.com/loike/mate-tools/pkg/mate/store/memstore"
	"github.com/loike/mate-tools/pkg/mate/store/sqlite"
)

// Input formats
const (
	formatText  = "text"
	formatHTML  = "html"
	formatCoNLL = "conll"
	formatJSONL = "jsonl"
)

type options struct {
	configPath string
	format     string
	dbPath     string
}

// summary describes a finished run
type summary struct {
	Run       string
	Sentences int
	Tokens    int
	Skipped   int
	Archived  int
	Timings   preprocess.Timings
}

func main() {
	var (
		configPath = flag.String("config", "", "Pipeline configuration file (optional)")
		inPath     = flag.String("in", "", "Input file (default stdin)")
		format     = flag.String("format", formatText, "Input format: text, html, conll or jsonl")
		outPath    = flag.String("out", "", "Output CoNLL-09 file (default stdout)")
		dbPath     = flag.String("db", "", "SQLite database to archive annotated sentences (optional)")
		verbose    = flag.Bool("verbose", false, "Development logging")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	var in io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			logger.Fatal("open input", zap.Error(err))
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Fatal("create output", zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	opts := options{configPath: *configPath, format: *format, dbPath: *dbPath}
	sum, err := run(context.Background(), opts, in, out, logger)
	if err != nil {
		logger.Fatal("preprocessing failed", zap.Error(err))
	}

	fields := []zap.Field{
		zap.String("run", sum.Run),
		zap.Int("sentences", sum.Sentences),
		zap.Int("tokens", sum.Tokens),
		zap.Int("skipped", sum.Skipped),
		zap.Int("archived", sum.Archived),
		zap.Duration("total", sum.Timings.Total()),
	}
	for _, stage := range preprocess.Stages {
		fields = append(fields, zap.Duration(stage.String(), sum.Timings.Get(stage)))
	}
	logger.Info("done", fields...)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// run preprocesses every sentence of in and writes the result to out.
// The first failing sentence aborts the run.
func run(ctx context.Context, opts options, in io.Reader, out io.Writer, logger *zap.Logger) (*summary, error) {
	loader := config.Loader{Path: opts.configPath, Logger: logger}
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	p := preprocess.New(comp.Stages)

	sum := &summary{Run: store.NewRunID()}

	// Without -db the run is a dry run: sentences are kept in memory only.
	var archive store.Store = memstore.New()
	if opts.dbPath != "" {
		archive, err = sqlite.OpenSQLite(ctx, opts.dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
	}
	defer archive.Close()

	w := conll09.NewWriter(out)
	emit := func(s *sentence.Sentence) error {
		result, err := p.PreprocessSentence(s)
		if err != nil {
			return fmt.Errorf("sentence %d: %w", sum.Sentences+1, err)
		}
		if err := w.Write(result); err != nil {
			return err
		}
		if _, err := archive.SaveSentence(ctx, sum.Run, result); err != nil {
			return fmt.Errorf("archive sentence %d: %w", sum.Sentences+1, err)
		}
		sum.Archived++
		sum.Sentences++
		sum.Tokens += result.Len() - 1
		logger.Debug("sentence", zap.Int("n", sum.Sentences), zap.Int("tokens", result.Len()-1))
		return nil
	}
	fromText := func(line string) error {
		if strings.TrimSpace(line) == "" {
			sum.Skipped++
			return nil
		}
		forms, err := p.Tokenize(line)
		if err != nil {
			return fmt.Errorf("sentence %d: %w", sum.Sentences+1, err)
		}
		return emit(sentence.New(forms))
	}

	switch opts.format {
	case formatText, "":
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			if err := fromText(sc.Text()); err != nil {
				return nil, err
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}

	case formatHTML:
		lines, err := htmltext.Lines(in)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		for _, line := range lines {
			if err := fromText(line); err != nil {
				return nil, err
			}
		}

	case formatJSONL:
		docs, err := corpus.LoadJSONL(in, logger)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			lines, err := doc.Lines()
			if err != nil {
				return nil, err
			}
			for _, line := range lines {
				if err := fromText(line); err != nil {
					return nil, err
				}
			}
		}

	case formatCoNLL:
		r := conll09.NewReader(in)
		for {
			s, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			if err := emit(s); err != nil {
				return nil, err
			}
		}

	default:
		return nil, fmt.Errorf("unknown input format %q", opts.format)
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}
	sum.Timings = p.Timings()
	return sum, nil
}

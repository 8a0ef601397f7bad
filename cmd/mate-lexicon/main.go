package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/loike/mate-tools/pkg/mate/conll09"
	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/store/sqlite"
)

func main() {
	var (
		outPath   = flag.String("out", "", "Write the lexicon as YAML to this file")
		dbPath    = flag.String("db", "", "Add the lexicon entries to this SQLite database")
		predicted = flag.Bool("predicted", false, "Read predicted columns instead of gold ones")
		verbose   = flag.Bool("verbose", false, "Development logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] train.conll09...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *outPath == "" && *dbPath == "" {
		log.Fatal("--out or --db required")
	}

	logger, err := zap.NewProduction()
	if *verbose {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	lex, err := build(flag.Args(), !*predicted, logger)
	if err != nil {
		logger.Fatal("build lexicon", zap.Error(err))
	}
	if err := save(context.Background(), lex, *outPath, *dbPath); err != nil {
		logger.Fatal("save lexicon", zap.Error(err))
	}
	logger.Info("lexicon written",
		zap.Int("forms", lex.Len()),
		zap.String("out", *outPath),
		zap.String("db", *dbPath))
}

// build counts the analyses of every token in the given CoNLL-09 files
func build(paths []string, gold bool, logger *zap.Logger) (*lexicon.Lexicon, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input files")
	}

	lex := lexicon.New()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		r := conll09.NewReader(f)
		r.PreferGold = gold
		sents, err := r.ReadAll()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		for _, s := range sents {
			lex.AddSentence(s)
		}
		logger.Info("read training file",
			zap.String("path", path),
			zap.Int("sentences", len(sents)),
			zap.Int("forms", lex.Len()))
	}
	return lex, nil
}

func save(ctx context.Context, lex *lexicon.Lexicon, outPath, dbPath string) error {
	if outPath != "" {
		if err := lex.SaveYAML(outPath); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
	}
	if dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		if err := st.PutEntries(ctx, lex.Records()); err != nil {
			return fmt.Errorf("store entries: %w", err)
		}
	}
	return nil
}

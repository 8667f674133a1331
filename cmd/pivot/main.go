package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Simplici0/craftprofit/internal/config"
	"github.com/Simplici0/craftprofit/internal/logger"
	"github.com/Simplici0/craftprofit/internal/pivot"
	"github.com/Simplici0/craftprofit/internal/report"
)

type options struct {
	in, out string
	pivot.Options
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	var opts options
	flag.StringVar(&opts.in, "in", pivot.DefaultInput, "input workbook")
	flag.StringVar(&opts.out, "out", pivot.DefaultOutput, "summary workbook")
	flag.StringVar(&opts.GroupBy, "group", pivot.DefaultGroupColumn, "column to group by")
	flag.StringVar(&opts.Sum, "sum", pivot.DefaultSumColumn, "column to sum")
	flag.Parse()

	logger.InitLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "craftprofit-pivot",
		Version:     "dev",
		Environment: cfg.Environment,
	})

	ctx, _ := logger.WithRunID(context.Background())
	if err := run(ctx, opts, os.Stdout); err != nil {
		logger.FromContext(ctx).Error("pivot failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	in, err := os.Open(opts.in)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	s, err := pivot.Read(in, opts.Options)
	if err != nil {
		return fmt.Errorf("summarize %s: %w", opts.in, err)
	}

	wb, err := s.Workbook()
	if err != nil {
		return err
	}
	defer wb.Close()
	if err := report.Save(wb, opts.out); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("wrote summary", "path", opts.out, "rows", s.Rows, "groups", len(s.Groups))
	for _, g := range s.Groups {
		fmt.Fprintf(out, "%s\t%s\n", g.Key, g.Total.String())
	}
	return nil
}

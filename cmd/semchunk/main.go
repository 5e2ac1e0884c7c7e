package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/semchunk/internal/chunker"
	"github.com/dgallion1/semchunk/internal/loader"
	"github.com/dgallion1/semchunk/internal/pipeline"
	"github.com/dgallion1/semchunk/internal/store"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "semchunk",
		Usage: "chunk extracted documents into embedding-ready segments",
		Commands: []*cli.Command{
			chunkCommand(),
			runsCommand(),
			showCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func chunkCommand() *cli.Command {
	return &cli.Command{
		Name:  "chunk",
		Usage: "chunk one extracted-document directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "extracted-document directory (metadata.json + pages/)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the result JSON to this file (default stdout)",
			},
			&cli.IntFlag{
				Name:  "target-size",
				Usage: "preferred chunk size in characters",
				Value: 1500,
			},
			&cli.IntFlag{
				Name:  "min-size",
				Usage: "minimum chunk size in characters",
				Value: 800,
			},
			&cli.IntFlag{
				Name:  "max-size",
				Usage: "maximum chunk size in characters",
				Value: 2500,
			},
			&cli.BoolFlag{
				Name:  "no-merge",
				Usage: "disable cross-page continuation merging",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "persist the run to the run store",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "run store path",
				Value: "semchunk.db",
			},
		},
		Action: runChunk,
	}
}

func runChunk(c *cli.Context) error {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	doc, err := loader.Load(c.String("input"))
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	cfg := chunker.Config{
		TargetSize:    c.Int("target-size"),
		MinSize:       c.Int("min-size"),
		MaxSize:       c.Int("max-size"),
		EnableMerging: !c.Bool("no-merge"),
	}
	if cfg.MinSize > cfg.TargetSize || cfg.TargetSize > cfg.MaxSize {
		return fmt.Errorf("chunk sizes must satisfy min <= target <= max")
	}

	eng := chunker.New(cfg, log)
	res := eng.ChunkDocument(doc)

	log.Info("chunked document",
		"document", res.Document,
		"pages", len(doc.Pages),
		"chunks", res.TotalChunks,
		"merges", res.Statistics.Processing.CrossPageMerges,
		"duplicates_prevented", res.Statistics.Processing.DuplicatesPrevented,
	)

	if c.Bool("save") {
		st, err := store.Open(c.String("db"))
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		defer st.Close()

		runID := pipeline.NewRunID()
		if err := st.SaveRun(context.Background(), runID, res); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		log.Info("saved run", "run_id", runID)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if path := c.String("output"); path != "" {
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(out))
	return nil
}

func runsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "list stored chunking runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "run store path",
				Value: "semchunk.db",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "maximum runs to list",
				Value: 20,
			},
		},
		Action: func(c *cli.Context) error {
			st, err := store.Open(c.String("db"))
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer st.Close()

			runs, err := st.ListRuns(context.Background(), c.Int("limit"))
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs stored")
				return nil
			}

			for _, r := range runs {
				fmt.Printf("%s  %-40s  %4d chunks  %s\n",
					r.RunID, r.Document, r.TotalChunks, r.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "show one stored run as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "run",
				Usage:    "run id",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "run store path",
				Value: "semchunk.db",
			},
			&cli.BoolFlag{
				Name:  "chunks",
				Usage: "include the run's chunks",
			},
		},
		Action: func(c *cli.Context) error {
			st, err := store.Open(c.String("db"))
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer st.Close()

			ctx := context.Background()
			summary, err := st.GetRun(ctx, c.String("run"))
			if err != nil {
				return err
			}

			out := map[string]any{"run": summary}
			if c.Bool("chunks") {
				chunks, err := st.GetChunks(ctx, summary.RunID)
				if err != nil {
					return err
				}
				out["chunks"] = chunks
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

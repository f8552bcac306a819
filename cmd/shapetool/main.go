// shapetool is the command-line host for the shape-file core: it owns all
// file I/O and drives the parser, builder, serializer, and editing session.
//
// Usage:
//
//	shapetool check [-config path] file.lua   validate a shape file
//	shapetool fmt   [-config path] [-write] file.lua   canonicalize a shape file
//	shapetool info  [-config path] file.lua   print a YAML summary
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/modsmith/shapeforge/internal/config"
	"github.com/modsmith/shapeforge/internal/editor"
	"github.com/modsmith/shapeforge/internal/observability"
	"github.com/modsmith/shapeforge/internal/shape"
	"github.com/modsmith/shapeforge/internal/shapefile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", "", "optional path to a YAML config file")
	write := fs.Bool("write", false, "fmt only: rewrite the file in place instead of printing")
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	path := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is uninteresting

	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading %s: %v\n", path, err)
		os.Exit(1)
	}

	switch cmd {
	case "check":
		err = runCheck(logger, string(text))
	case "fmt":
		err = runFmt(logger, cfg, path, string(text), *write)
	case "info":
		err = runInfo(logger, cfg, string(text))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: shapetool <check|fmt|info> [-config path] [-write] file.lua")
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// runCheck validates the file and reports warnings. When the restricted
// parser rejects it, a real Lua VM is consulted to tell "valid Lua this tool
// does not support" apart from "not Lua at all".
func runCheck(logger *zap.Logger, text string) error {
	collection, warnings, err := shapefile.ParseAndBuild(text)
	if err != nil {
		var parseErr *shapefile.ParseError
		if errors.As(err, &parseErr) {
			if luaErr := shapefile.CheckLua(text); luaErr == nil {
				return fmt.Errorf("%w (the file is valid Lua, but uses constructs outside the shape-file subset)", err)
			}
		}
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	logger.Info("shape file is valid",
		zap.Int("shapes", len(collection.Shapes)),
		zap.Int("warnings", len(warnings)),
	)
	fmt.Printf("ok: %d shapes\n", len(collection.Shapes))
	return nil
}

// runFmt canonicalizes the file through a full import/export cycle.
func runFmt(logger *zap.Logger, cfg config.Config, path, text string, write bool) error {
	sess := editor.NewSession(logger, cfg.Editor.HistoryLimit)
	warnings, err := sess.Import(text)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	out := sess.Export()
	if write {
		return os.WriteFile(path, []byte(out), 0644)
	}
	fmt.Print(out)
	return nil
}

// shapeSummary is one shape's row in the info output.
type shapeSummary struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Variants []struct {
		Verts int `yaml:"verts"`
		Ports int `yaml:"ports"`
	} `yaml:"variants"`
}

// runInfo prints a YAML summary of the collection.
func runInfo(logger *zap.Logger, cfg config.Config, text string) error {
	sess := editor.NewSession(logger, cfg.Editor.HistoryLimit)
	if _, err := sess.Import(text); err != nil {
		return err
	}
	snapshot := sess.Snapshot()

	summaries := make([]shapeSummary, 0, len(snapshot.Shapes))
	for _, s := range snapshot.Shapes {
		summaries = append(summaries, summarize(s))
	}
	out, err := yaml.Marshal(map[string]any{"shapes": summaries})
	if err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func summarize(s shape.Shape) shapeSummary {
	sum := shapeSummary{ID: s.ID, Name: s.DisplayName()}
	for _, sv := range s.Variants {
		sum.Variants = append(sum.Variants, struct {
			Verts int `yaml:"verts"`
			Ports int `yaml:"ports"`
		}{Verts: len(sv.Verts), Ports: len(sv.Ports)})
	}
	return sum
}

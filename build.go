package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/NickyBoy89/prec/codegen"
	"github.com/NickyBoy89/prec/dot"
	"github.com/NickyBoy89/prec/preprocess"
	"github.com/NickyBoy89/prec/verify"
	log "github.com/sirupsen/logrus"
)

// SourceExtension is the extension every input file must have
const SourceExtension = ".preC"

var (
	errNotSource   = errors.New("input is not a " + SourceExtension + " file")
	errSyntax      = errors.New("generated C has syntax errors")
	errCompilation = errors.New("compilation failed")
)

// OutputName is the default binary path for an input file: the input without
// its extension
func OutputName(input string) string {
	return input[:len(input)-len(filepath.Ext(input))]
}

func checkExtension(input string) error {
	if filepath.Ext(input) != SourceExtension {
		return fmt.Errorf("%w: %s", errNotSource, input)
	}
	return nil
}

func loadBackend(cfg Config) (codegen.Backend, error) {
	if cfg.Templates != "" {
		return codegen.LoadDir(cfg.Templates)
	}
	return codegen.Lookup(cfg.Backend)
}

// Build transforms the input file, and then either writes the generated C to
// `stdout`, or compiles it
func Build(ctx context.Context, cfg Config, input string, stdout io.Writer) error {
	entry := log.WithField("file", input)

	if err := checkExtension(input); err != nil {
		return err
	}
	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	backend, err := loadBackend(cfg)
	if err != nil {
		return err
	}

	p := preprocess.New(string(src),
		preprocess.WithBackend(backend),
		preprocess.WithReceiver(cfg.Receiver),
		preprocess.WithFilename(input),
		preprocess.WithStrict(cfg.Strict),
		preprocess.WithLogger(entry),
	)
	if err := p.Parse(); err != nil {
		return err
	}
	entry.WithFields(log.Fields{
		"classes":  p.Classes().Len(),
		"warnings": len(p.Warnings()),
		"backend":  backend.Name(),
	}).Info("Transformed source")

	if cfg.Check {
		if err := checkSyntax(ctx, entry, p.Src); err != nil {
			return err
		}
	}

	if cfg.Dot != "" {
		if err := dot.FromClasses(p.Classes()).WriteFile(cfg.Dot); err != nil {
			return fmt.Errorf("failed to write class graph: %w", err)
		}
		entry.WithField("dot", cfg.Dot).Debug("Wrote class graph")
	}

	if cfg.Emit {
		_, err := io.WriteString(stdout, p.Src)
		return err
	}

	output := cfg.Output
	if output == "" {
		output = OutputName(input)
	}
	return compile(ctx, cfg, entry, p.Src, output)
}

func checkSyntax(ctx context.Context, entry *log.Entry, src string) error {
	errs, err := verify.Check(ctx, []byte(src))
	if err != nil {
		return err
	}
	for _, se := range errs {
		entry.WithFields(log.Fields{
			"line":   se.Line,
			"column": se.Column,
		}).Error(se.String())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %d found", errSyntax, len(errs))
	}
	return nil
}

// compile writes the generated C to the intermediate file, and runs the
// compiler on it. The intermediate file is only removed once compilation
// succeeds, so that failures can be inspected
func compile(ctx context.Context, cfg Config, entry *log.Entry, src, output string) error {
	if err := os.WriteFile(cfg.Intermediate, []byte(src), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Intermediate, err)
	}

	args := append(append([]string{}, cfg.CFlags...), "-o", output, cfg.Intermediate)
	cmd := exec.CommandContext(ctx, cfg.CC, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	entry.WithFields(log.Fields{
		"cc":   cfg.CC,
		"args": args,
	}).Debug("Running compiler")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v (generated C kept in %s)", errCompilation, cfg.CC, err, cfg.Intermediate)
	}

	if !cfg.Keep {
		if err := os.Remove(cfg.Intermediate); err != nil {
			entry.WithError(err).Warn("Failed to remove intermediate file")
		}
	}
	entry.WithField("output", output).Info("Compiled")
	return nil
}

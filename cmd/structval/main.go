package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	json "github.com/goccy/go-json"

	"github.com/reoring/structval"
	"github.com/reoring/structval/internal/config"
	"github.com/reoring/structval/internal/logger"
	"github.com/reoring/structval/schemafile"
)

const (
	exitValid      = 0
	exitViolations = 1
	exitUsage      = 2
)

func main() {
	os.Exit(run(os.Args[1:], env.ToMap(os.Environ()), os.Stdout, os.Stderr))
}

func run(args []string, environ map[string]string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "validate":
		return validateCmd(args[1:], environ, stdout, stderr)
	case "plan":
		return planCmd(args[1:], environ, stdout, stderr)
	default:
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "structval\n\nUsage:\n  structval validate -schema types.yaml -type T -data doc.json [-fail-fast] [-o text|json]\n  structval plan -schema types.yaml -type T\n\nEnvironment:\n  STRUCTVAL_FAIL_FAST, STRUCTVAL_LOG_LEVEL, STRUCTVAL_LOG_FORMAT, STRUCTVAL_OUTPUT")
}

type common struct {
	cfg      *config.Config
	log      *logger.Logger
	schema   string
	typeName string
}

func setup(name string, args []string, environ map[string]string, stderr io.Writer, extra func(*flag.FlagSet)) (*common, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := &common{}
	fs.StringVar(&c.schema, "schema", "", "schema file (.yaml, .yml or .json)")
	fs.StringVar(&c.typeName, "type", "", "name of the type to validate against")
	if extra != nil {
		extra(fs)
	}
	cfg, err := config.Load(fs, args, environ)
	if err != nil {
		return nil, err
	}
	if c.schema == "" || c.typeName == "" {
		return nil, errors.New("-schema and -type are required")
	}
	log, err := logger.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.log = log
	return c, nil
}

func (c *common) compose() (*structval.ComposedValidator, error) {
	tds, err := schemafile.NewLoader().Load(c.schema)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("schema", c.schema).Int("types", len(tds)).Msg("schema loaded")

	composer := structval.NewComposer(structval.WithLogger(c.log.Child("composer").Logger))
	if err := composer.Register(tds...); err != nil {
		return nil, err
	}
	return composer.Validator(c.typeName)
}

func validateCmd(args []string, environ map[string]string, stdout, stderr io.Writer) int {
	var dataPath string
	c, err := setup("validate", args, environ, stderr, func(fs *flag.FlagSet) {
		fs.StringVar(&dataPath, "data", "", "data document (.yaml, .yml or .json)")
	})
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return exitUsage
	}
	if dataPath == "" {
		fmt.Fprintln(stderr, "validate: -data is required")
		return exitUsage
	}

	v, err := c.compose()
	if err != nil {
		c.log.Error().Err(err).Msg("composition failed")
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return exitUsage
	}
	doc, err := schemafile.LoadDocument(dataPath)
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return exitUsage
	}

	violations := v.Validate(doc, structval.Root(c.cfg.FailFast))
	c.log.Info().Str("type", v.Name()).Int("violations", len(violations)).Bool("fail_fast", c.cfg.FailFast).Msg("validated")
	if err := report(stdout, c.cfg.Output, violations); err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return exitUsage
	}
	if len(violations) > 0 {
		return exitViolations
	}
	return exitValid
}

func planCmd(args []string, environ map[string]string, stdout, stderr io.Writer) int {
	c, err := setup("plan", args, environ, stderr, nil)
	if err != nil {
		fmt.Fprintf(stderr, "plan: %v\n", err)
		return exitUsage
	}
	v, err := c.compose()
	if err != nil {
		fmt.Fprintf(stderr, "plan: %v\n", err)
		return exitUsage
	}

	slots := v.Slots()
	if c.cfg.Output == "json" {
		out := make([]slotJSON, 0, len(slots))
		for _, s := range slots {
			out = append(out, slotJSON{Kind: s.Kind.String(), Key: s.Key, Field: s.Field})
		}
		if err := writeJSON(stdout, planJSON{Type: v.Name(), Slots: out}); err != nil {
			fmt.Fprintf(stderr, "plan: %v\n", err)
			return exitUsage
		}
		return exitValid
	}
	fmt.Fprintln(stdout, v.Name())
	for i, s := range slots {
		fmt.Fprintf(stdout, "  #%d %-10s %s (first declared on %s)\n", i, s.Kind, s.Key, s.Field)
	}
	return exitValid
}

type violationJSON struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type resultJSON struct {
	Valid      bool            `json:"valid"`
	Violations []violationJSON `json:"violations"`
}

type slotJSON struct {
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Field string `json:"field"`
}

type planJSON struct {
	Type  string     `json:"type"`
	Slots []slotJSON `json:"slots"`
}

func report(w io.Writer, format string, violations []structval.Violation) error {
	if format == "json" {
		res := resultJSON{Valid: len(violations) == 0, Violations: make([]violationJSON, 0, len(violations))}
		for _, v := range violations {
			res.Violations = append(res.Violations, violationJSON{Path: v.Pointer(), Message: v.Message})
		}
		return writeJSON(w, res)
	}
	if len(violations) == 0 {
		_, err := fmt.Fprintln(w, "valid")
		return err
	}
	for _, v := range violations {
		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

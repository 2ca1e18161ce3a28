// Command epubconv converts an ePub file to plain text or printable HTML.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/simp-lee/epubconv"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath  string
		outputPath string
		format     string
		configPath string
		verbose    bool
	)

	flag.StringVar(&inputPath, "input", inputDefault, "Path to the ePub file ('-' reads stdin)")
	flag.StringVar(&outputPath, "output", os.Getenv("EPUBCONV_OUTPUT"), "Path to write the result (default: stdout)")
	flag.StringVar(&format, "format", envOr("EPUBCONV_FORMAT", formatDefault), "Output format: text or html")
	flag.StringVar(&configPath, "config", "", "Optional YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := Config{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Format:     normalizeFormat(format),
		Verbose:    verbose,
	}
	if configPath != "" {
		fc, err := LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config")
		}
		ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("conversion failed")
		os.Exit(1)
	}
}

// run reads the archive named by cfg, converts it and writes the result.
func run(cfg Config, stdin io.Reader, stdout io.Writer) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	data, err := readInput(cfg.InputPath, stdin)
	if err != nil {
		return err
	}

	out, err := convert(data, cfg.Format)
	if err != nil {
		return err
	}

	if cfg.OutputPath == "" {
		_, err = io.WriteString(stdout, out)
		return err
	}
	if err := os.WriteFile(cfg.OutputPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("path", cfg.OutputPath).Int("bytes", len(out)).Msg("wrote output")
	return nil
}

// convert opens the archive once so warnings can be logged before the
// result is rendered.
func convert(data []byte, format string) (string, error) {
	if data == nil {
		return "", epubconv.ErrNoInput
	}
	book, err := epubconv.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer book.Close()

	source := "spine"
	if !book.FromSpine() {
		source = "archive scan"
	}
	log.Debug().
		Str("package", book.PackagePath()).
		Str("order", source).
		Int("documents", len(book.Documents())).
		Msg("resolved reading order")

	var out string
	switch format {
	case formatHTML:
		out = book.HTML()
	default:
		out = book.Text()
	}

	for _, w := range book.Warnings() {
		log.Warn().Msg(w)
	}
	return out, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

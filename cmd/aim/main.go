// Command aim extracts forensic metadata from an image file and prints
// the assembled record as JSON, optionally writing the sidecar artifacts.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	aim "github.com/Sabirtanvir12/AIM-Forensic-Extractor"
)

func main() {
	var (
		outDir    = flag.String("out", "", "directory to write the metadata sidecar and report to")
		noTamper  = flag.Bool("no-tamper-check", false, "skip the pixel recompression check")
		threshold = flag.Float64("tamper-threshold", 0, "recompression mean-difference threshold (0 = default)")
		quiet     = flag.Bool("quiet", false, "suppress warnings on stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <image>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *quiet {
		logger = logger.Level(zerolog.ErrorLevel)
	}

	opts := aim.Options{
		Warnf: func(format string, args ...any) {
			logger.Warn().Msgf(format, args...)
		},
		DisableTamperCheck: *noTamper,
		TamperThreshold:    *threshold,
	}

	rec := aim.NewExtractor(opts).Extract(path)

	b, err := rec.JSON()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to render record")
	}
	fmt.Println(string(b))

	if *outDir != "" {
		jsonPath, reportPath := aim.SidecarPaths(path, *outDir)
		if err := aim.SaveJSON(rec, jsonPath); err != nil {
			logger.Fatal().Err(err).Msg("failed to save metadata sidecar")
		}
		if err := aim.SaveReport(rec, reportPath); err != nil {
			logger.Fatal().Err(err).Msg("failed to save report")
		}
		logger.Info().Str("json", jsonPath).Str("report", reportPath).Msg("artifacts written")
	}

	if rec.Failed() {
		os.Exit(1)
	}
}

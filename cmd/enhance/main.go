// Camera frame enhancement CLI
//
// Processes a sequence of frames through one pipeline instance, so the
// shadow corrector's background model adapts across the whole sequence.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"frame-enhancement/internal/core"
	"frame-enhancement/internal/imgio"
	"frame-enhancement/internal/metrics"
	"frame-enhancement/internal/stages"
	"frame-enhancement/internal/visual"
)

const (
	AppName    = "Frame Enhancement"
	AppVersion = "1.0.0"
)

func main() {
	settingsPath := flag.String("settings", "", "YAML settings file (defaults used when empty)")
	outDir := flag.String("out", ".", "Directory for enhanced output frames")
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	dumpBackground := flag.String("dump-background", "", "Write the learned background model heatmap to this PNG")
	dumpTileGrid := flag.String("dump-tile-grid", "", "Write the first frame with the CLAHE tile grid overlaid to this PNG")
	reportMetrics := flag.Bool("metrics", true, "Log per-frame quality metrics")
	listStages := flag.Bool("list-stages", false, "List available stages and their parameters, then exit")
	flag.Parse()

	logger := initLogger(*debugMode)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
	}).Info("Starting frame enhancement")

	if *listStages {
		printStages()
		return
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		logger.Error("No input frames given")
		fmt.Fprintf(os.Stderr, "usage: enhance [flags] frame1.png [frame2.png ...]\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	settings := core.DefaultSettings()
	if *settingsPath != "" {
		var err error
		settings, err = core.LoadSettings(*settingsPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load settings")
		}
		logger.WithField("settings", *settingsPath).Info("Settings loaded")
	}

	slogLevel := slog.LevelInfo
	if *debugMode {
		slogLevel = slog.LevelDebug
	}
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))

	pipeline := core.NewPipeline(settings, slogger)
	loader := imgio.NewLoader(slogger)
	evaluator := metrics.NewEvaluator()

	var lastWidth, lastHeight int
	for i, input := range inputs {
		frame, err := loader.LoadFrame(input)
		if err != nil {
			logger.WithError(err).WithField("frame", input).Fatal("Failed to load frame")
		}

		if i == 0 && *dumpTileGrid != "" && settings.Contrast == core.ContrastCLAHE {
			if err := visual.RenderTileGrid(frame, settings.CLAHE.TilesPerAxis, *dumpTileGrid); err != nil {
				logger.WithError(err).Warn("Failed to render tile grid")
			}
		}

		enhanced, err := pipeline.Process(frame)
		if err != nil {
			logger.WithError(err).WithField("frame", input).Fatal("Processing failed")
		}
		lastWidth, lastHeight = frame.Width, frame.Height

		if *reportMetrics {
			fields := logrus.Fields{"frame": input}
			for name, value := range evaluator.EvaluateAll(frame, enhanced) {
				fields[name] = value
			}
			logger.WithFields(fields).Info("Frame metrics")
		}

		output := filepath.Join(*outDir, "enhanced_"+filepath.Base(input))
		if err := loader.SaveFrame(enhanced, output); err != nil {
			logger.WithError(err).WithField("frame", output).Fatal("Failed to save frame")
		}
	}

	if *dumpBackground != "" {
		model := pipeline.BackgroundModel()
		err := visual.RenderBackgroundModel(model, lastWidth, lastHeight, "background model", *dumpBackground)
		if err != nil {
			logger.WithError(err).Warn("Failed to render background model")
		} else {
			logger.WithField("file", *dumpBackground).Info("Background model written")
		}
	}

	logger.WithField("frames", len(inputs)).Info("Done")
}

func printStages() {
	all := stages.GetAllStages()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stage := all[name]
		fmt.Printf("%-18s %s\n", name, stage.GetDescription())
		for _, info := range stage.GetParameterInfo() {
			fmt.Printf("    %-16s %s (%s, default %v)\n", info.Name, info.Description, info.Type, info.Default)
		}
	}
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}

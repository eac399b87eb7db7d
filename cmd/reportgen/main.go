// Command reportgen renders an analysis payload JSON file into a PDF
// report. Layout defaults can be overridden with a YAML config file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/docsight/reportkit/analysis"
	"github.com/docsight/reportkit/layout"
	"github.com/docsight/reportkit/observability"
	"github.com/docsight/reportkit/report"
	"github.com/docsight/reportkit/writer"
)

// fileConfig mirrors the YAML layout configuration.
type fileConfig struct {
	Page struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"page"`
	Margins struct {
		Top    float64 `yaml:"top"`
		Bottom float64 `yaml:"bottom"`
		Left   float64 `yaml:"left"`
		Right  float64 `yaml:"right"`
	} `yaml:"margins"`
	BaseFontSize float64           `yaml:"base_font_size"`
	LineHeight   float64           `yaml:"line_height"`
	Labels       map[string]string `yaml:"labels"`
	Output       struct {
		PageWidth  float64 `yaml:"page_width"`
		PageHeight float64 `yaml:"page_height"`
	} `yaml:"output"`
}

func main() {
	payloadPath := flag.String("payload", "", "analysis payload JSON file (required)")
	outPath := flag.String("o", "report.pdf", "output PDF path")
	configPath := flag.String("config", "", "optional YAML layout config")
	fontPath := flag.String("font", "", "optional TrueType font file overriding the payload font URL")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *payloadPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*payloadPath, *outPath, *configPath, *fontPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "reportgen:", err)
		os.Exit(1)
	}
}

func run(payloadPath, outPath, configPath, fontPath string, verbose bool) error {
	raw, err := os.ReadFile(payloadPath)
	if err != nil {
		return err
	}
	var payload analysis.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	if fontPath != "" {
		payload.FontURL = "file://" + fontPath
	}

	var layoutOpts []layout.Option
	var writerCfg writer.Config
	if configPath != "" {
		layoutOpts, writerCfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := observability.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	gen := report.NewGenerator(
		report.WithLogger(log),
		report.WithLayoutOptions(layoutOpts...),
		report.WithWriterConfig(writerCfg),
	)
	pdf, err := gen.Generate(context.Background(), &payload)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, pdf, 0o644)
}

func loadConfig(path string) ([]layout.Option, writer.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, writer.Config{}, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, writer.Config{}, fmt.Errorf("parse config: %w", err)
	}

	var opts []layout.Option
	if fc.Page.Width > 0 && fc.Page.Height > 0 {
		opts = append(opts, layout.WithPageSize(fc.Page.Width, fc.Page.Height))
	}
	if fc.Margins.Top > 0 || fc.Margins.Bottom > 0 || fc.Margins.Left > 0 || fc.Margins.Right > 0 {
		opts = append(opts, layout.WithMargins(layout.Margins{
			Top:    fc.Margins.Top,
			Bottom: fc.Margins.Bottom,
			Left:   fc.Margins.Left,
			Right:  fc.Margins.Right,
		}))
	}
	if fc.BaseFontSize > 0 {
		opts = append(opts, layout.WithBaseFontSize(fc.BaseFontSize))
	}
	if fc.LineHeight > 0 {
		opts = append(opts, layout.WithLineHeight(fc.LineHeight))
	}
	if len(fc.Labels) > 0 {
		opts = append(opts, layout.WithLabels(mergeLabels(fc.Labels)))
	}

	var wcfg writer.Config
	wcfg.PageWidth = fc.Output.PageWidth
	wcfg.PageHeight = fc.Output.PageHeight
	return opts, wcfg, nil
}

// mergeLabels overlays YAML label overrides on the defaults.
func mergeLabels(m map[string]string) layout.Labels {
	l := layout.DefaultLabels()
	set := map[string]*string{
		"report_title":    &l.ReportTitle,
		"untitled_doc":    &l.UntitledDoc,
		"pages_fmt":       &l.PagesFmt,
		"global_summary":  &l.GlobalSummary,
		"key_conclusions": &l.KeyConclusions,
		"core_data":       &l.CoreData,
		"risks_actions":   &l.RisksActions,
		"keywords":        &l.Keywords,
		"keywords_prefix": &l.KeywordsPrefix,
		"keyword_joiner":  &l.KeywordJoiner,
		"per_page":        &l.PerPage,
		"page_fmt":        &l.PageFmt,
		"skipped_marker":  &l.SkippedMarker,
		"no_data":         &l.NoData,
		"no_image":        &l.NoImage,
		"word_cloud":      &l.WordCloud,
		"mind_map":        &l.MindMap,
	}
	for k, v := range m {
		if p, ok := set[k]; ok {
			*p = v
		}
	}
	return l
}

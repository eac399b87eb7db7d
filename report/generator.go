// Package report ties the pipeline together: resolve fonts, compose the
// raster page sequence, and assemble it into a PDF. It is the only package
// here that touches the network.
package report

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/docsight/reportkit/analysis"
	"github.com/docsight/reportkit/fonts"
	"github.com/docsight/reportkit/layout"
	"github.com/docsight/reportkit/observability"
	"github.com/docsight/reportkit/writer"
)

// Generator produces PDF reports from analysis payloads. A zero-configured
// Generator from NewGenerator is ready to use; one Generator may serve many
// Generate calls, each with its own engine and page sequence.
type Generator struct {
	client     *http.Client
	log        observability.Logger
	tracer     observability.Tracer
	layoutOpts []layout.Option
	writerCfg  writer.Config
}

// Option configures a Generator.
type Option func(*Generator)

// WithHTTPClient sets the client used for image and font fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) { g.client = c }
}

// WithLogger sets the generator logger, also handed to the layout engine.
func WithLogger(log observability.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithTracer sets the tracer wrapping the generation phases.
func WithTracer(t observability.Tracer) Option {
	return func(g *Generator) { g.tracer = t }
}

// WithLayoutOptions appends options passed to every layout engine.
func WithLayoutOptions(opts ...layout.Option) Option {
	return func(g *Generator) { g.layoutOpts = append(g.layoutOpts, opts...) }
}

// WithWriterConfig sets the document assembly configuration.
func WithWriterConfig(cfg writer.Config) Option {
	return func(g *Generator) { g.writerCfg = cfg }
}

// NewGenerator builds a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    observability.NopLogger{},
		tracer: observability.NopTracer(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the payload into PDF bytes. Image and font failures are
// absorbed into page content; only surface acquisition and document
// assembly failures surface as errors. There is no retry logic here:
// retries belong to the caller.
func (g *Generator) Generate(ctx context.Context, p *analysis.Payload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("report: nil payload")
	}
	log := g.log.With(observability.String("run_id", uuid.NewString()))
	log.Info("report generation started",
		observability.String("title", p.Title),
		observability.Int("page_summaries", len(p.Pages)))

	fc := g.resolveFonts(ctx, p, log)

	engine, err := layout.NewEngine(fc, append([]layout.Option{layout.WithLogger(log)}, g.layoutOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	// The two trailing sections resolve strictly in order: the word cloud
	// fully loads (or fails) before the mind map starts.
	loader := newImageLoader(g.client)
	imgs := layout.SectionImages{
		WordCloud: g.loadSection(ctx, loader, p.WordCloudURL, "wordcloud", log),
		MindMap:   g.loadSection(ctx, loader, p.MindMapURL, "mindmap", log),
	}

	ctx, span := g.tracer.StartSpan(ctx, "report.compose")
	err = engine.ComposeReport(p, imgs)
	if err != nil {
		span.SetError(err)
		span.Finish()
		return nil, fmt.Errorf("report: compose: %w", err)
	}
	span.Finish()

	pages := engine.Finish()
	log.Info("pages composed", observability.Int("pages", len(pages)))

	_, span = g.tracer.StartSpan(ctx, "report.assemble")
	defer span.Finish()
	cfg := g.writerCfg
	if cfg.Info.Title == "" {
		cfg.Info.Title = p.Title
	}
	out, err := writer.Bytes(pages, cfg)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("report: assemble: %w", err)
	}
	log.Info("report generation finished", observability.Int("bytes", len(out)))
	return out, nil
}

func (g *Generator) loadSection(ctx context.Context, loader *imageLoader, url, name string, log observability.Logger) layout.SectionImage {
	if url == "" {
		return layout.SectionImage{}
	}
	img, err := loader.Load(ctx, url)
	if err != nil {
		log.Warn("section image load failed",
			observability.String("section", name),
			observability.Error("error", err))
		return layout.SectionImage{Err: err}
	}
	return layout.SectionImage{Image: img}
}

// resolveFonts builds the font collection: bundled faces, plus the custom
// payload font when one is referenced and loads cleanly. Font failures are
// recovered by falling back to the bundled stack; a CJK payload rendering
// without a CJK-capable font gets a warning because the bundled faces lack
// those glyphs.
func (g *Generator) resolveFonts(ctx context.Context, p *analysis.Payload, log observability.Logger) *fonts.Collection {
	fc, err := fonts.DefaultCollection()
	if err != nil {
		// The bundled fonts are compiled in; failing to parse them means
		// a broken build, but the nil collection still lets NewEngine
		// report a usable error instead of panicking here.
		log.Error("bundled fonts unavailable", observability.Error("error", err))
		fc = &fonts.Collection{}
	}

	if p.FontURL != "" {
		data, err := fetchBytes(ctx, g.client, p.FontURL)
		if err == nil {
			var src *fonts.Source
			if src, err = fonts.Parse(data); err == nil {
				fc.Custom = src
			}
		}
		if err != nil {
			log.Warn("custom font unavailable, using bundled fonts",
				observability.String("url", p.FontURL),
				observability.Error("error", err))
		}
	}

	if fc.Custom == nil {
		if script := fonts.DominantScript(sampleText(p)); fonts.IsCJK(script) {
			log.Warn("payload is CJK but no custom font was supplied; glyphs may be missing")
		}
	}
	return fc
}

// sampleText gathers enough payload text for script detection.
func sampleText(p *analysis.Payload) string {
	s := p.Title
	for _, b := range p.Summary.Bullets {
		if len(s) > 512 {
			break
		}
		s += b
	}
	return s
}

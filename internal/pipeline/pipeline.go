// Package pipeline drives the per-document build pass: render markdown,
// rewrite anchor tokens, emit the output tree, and hand the collected link
// records to the configured sinks.
package pipeline

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // change detection, not integrity
	"encoding/hex"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/linkrouter/internal/config"
	"git.home.luguber.info/inful/linkrouter/internal/errors"
	"git.home.luguber.info/inful/linkrouter/internal/frontmatter"
	"git.home.luguber.info/inful/linkrouter/internal/htmltoken"
	"git.home.luguber.info/inful/linkrouter/internal/linkstore"
	"git.home.luguber.info/inful/linkrouter/internal/logfields"
	"git.home.luguber.info/inful/linkrouter/internal/metrics"
	"git.home.luguber.info/inful/linkrouter/internal/report"
	"git.home.luguber.info/inful/linkrouter/internal/rewrite"
	"git.home.luguber.info/inful/linkrouter/internal/routes"
	"git.home.luguber.info/inful/linkrouter/internal/token"
)

// Pipeline processes a markdown source tree into rewritten markup plus link
// records. One Pipeline may run repeatedly (watch mode); every run uses fresh
// per-document environments.
type Pipeline struct {
	cfg       *config.Config
	md        goldmark.Markdown
	rewriter  *rewrite.Rewriter
	store     *linkstore.Store
	publisher report.Publisher
	recorder  metrics.Recorder
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithStore attaches a link store for persistence and incremental skips.
func WithStore(s *linkstore.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithPublisher attaches a link-record event publisher.
func WithPublisher(pub report.Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// New builds a Pipeline from configuration.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	var externalAttrs []token.Attr
	for _, a := range cfg.Rewrite.ExternalAttrs {
		externalAttrs = append(externalAttrs, token.Attr{Name: a.Name, Value: a.Value})
	}

	rw, err := rewrite.New(rewrite.Config{
		ExternalAttrs: externalAttrs,
		InternalTag:   rewrite.InternalTag(cfg.Rewrite.InternalTag),
	})
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:      cfg,
		md:       goldmark.New(),
		rewriter: rw,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// DocumentResult is the outcome of processing one source document.
type DocumentResult struct {
	Path    string
	Route   string
	Hash    string
	Links   []rewrite.LinkRecord
	Skipped bool
}

// Result summarizes one pipeline run.
type Result struct {
	BuildID    string
	Duration   time.Duration
	Documents  []DocumentResult
	LinkCounts map[rewrite.Classification]int
}

// Run processes every markdown document under the configured source tree.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{
		BuildID:    uuid.NewString(),
		LinkCounts: make(map[rewrite.Classification]int),
	}

	slog.Info("Starting link rewrite build",
		logfields.BuildID(result.BuildID),
		slog.String("source", p.cfg.Site.Source),
		slog.String("output", p.cfg.Site.Output))

	err := filepath.WalkDir(p.cfg.Site.Source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.OutputError("walk source", err)
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != p.cfg.Site.Source {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(p.cfg.Site.Source, path)
		if err != nil {
			return errors.InternalError("relativize source path", err)
		}
		rel = filepath.ToSlash(rel)

		doc, counts, err := p.processDocument(ctx, rel, path, result.BuildID)
		if err != nil {
			p.recorder.IncDocumentResult(metrics.ResultFailed)
			return err
		}
		if doc.Skipped {
			p.recorder.IncDocumentResult(metrics.ResultSkipped)
		} else {
			p.recorder.IncDocumentResult(metrics.ResultSuccess)
		}
		for class, n := range counts {
			result.LinkCounts[class] += n
			for i := 0; i < n; i++ {
				p.recorder.IncLinkClass(string(class))
			}
		}
		result.Documents = append(result.Documents, *doc)
		return nil
	})

	result.Duration = time.Since(start)
	p.recorder.ObserveBuildDuration(result.Duration)

	if err != nil {
		p.recorder.IncBuildOutcome("failed")
		return nil, err
	}

	if p.cfg.Report.Path != "" {
		if err := p.writeReport(result); err != nil {
			p.recorder.IncBuildOutcome("failed")
			return nil, err
		}
	}

	p.recorder.IncBuildOutcome("success")
	slog.Info("Link rewrite build completed",
		logfields.BuildID(result.BuildID),
		logfields.Documents(len(result.Documents)),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

// processDocument renders, rewrites and emits one document. Unchanged
// documents (per stored content hash) are skipped and their stored records
// reused.
func (p *Pipeline) processDocument(ctx context.Context, rel, srcPath, buildID string) (*DocumentResult, map[rewrite.Classification]int, error) {
	docStart := time.Now()
	defer func() { p.recorder.ObserveDocumentDuration(time.Since(docStart)) }()

	content, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, nil, errors.OutputError("read source", err).WithContext("document", rel)
	}

	sum := md5.Sum(content)
	hash := hex.EncodeToString(sum[:])

	if p.store != nil {
		stored, err := p.store.DocumentHash(ctx, rel)
		if err != nil {
			slog.Warn("Link store lookup failed", logfields.Document(rel), logfields.Error(err))
		} else if stored == hash {
			links, err := p.store.Links(ctx, rel)
			if err != nil {
				slog.Warn("Link store read failed", logfields.Document(rel), logfields.Error(err))
			} else {
				slog.Debug("Skipping unchanged document", logfields.Document(rel))
				return &DocumentResult{
					Path:    rel,
					Route:   routes.Infer(rel),
					Hash:    hash,
					Links:   links,
					Skipped: true,
				}, nil, nil
			}
		}
	}

	meta, body, err := frontmatter.Split(content)
	if err != nil {
		return nil, nil, errors.RenderFailed(rel, err)
	}

	var rendered bytes.Buffer
	if err := p.md.Convert(body, &rendered); err != nil {
		return nil, nil, errors.RenderFailed(rel, err)
	}

	stream, err := htmltoken.Tokenize(&rendered)
	if err != nil {
		return nil, nil, errors.RewriteFailed(rel, err)
	}

	env := &rewrite.Env{
		Base:             p.cfg.Site.Base,
		FilePathRelative: rel,
	}
	counts := p.rewriter.NewPass(env).Apply(stream)

	route := routes.Infer(rel)
	if permalink, ok := frontmatter.Permalink(meta); ok {
		route = strings.TrimPrefix(permalink, "/")
	}

	if err := p.writeOutput(route, stream); err != nil {
		return nil, nil, err
	}

	doc := &DocumentResult{
		Path:  rel,
		Route: route,
		Hash:  hash,
		Links: env.Links,
	}

	if p.publisher != nil {
		event := &report.DocumentEvent{
			BuildID:  buildID,
			Document: rel,
			Route:    route,
			Base:     p.cfg.Site.Base,
			Links:    env.Links,
		}
		if err := p.publisher.PublishDocumentLinks(ctx, event); err != nil {
			// Publication is best-effort; the report file still carries the records.
			slog.Warn("Failed to publish link records", logfields.Document(rel), logfields.Error(err))
		}
	}

	if p.store != nil {
		err := p.store.PutDocument(ctx, linkstore.DocumentLinks{
			Path:    rel,
			Hash:    hash,
			BuildID: buildID,
			Links:   env.Links,
		})
		if err != nil {
			slog.Warn("Failed to persist link records", logfields.Document(rel), logfields.Error(err))
		}
	}

	slog.Debug("Processed document",
		logfields.Document(rel),
		logfields.Route(route),
		logfields.Links(len(env.Links)))
	return doc, counts, nil
}

// writeOutput serializes the rewritten stream under the output tree at the
// document's route path. Directory routes land in an index.html.
func (p *Pipeline) writeOutput(route string, stream []*token.Token) error {
	outRel := route
	if outRel == "" || strings.HasSuffix(outRel, "/") {
		outRel += "index.html"
	}
	outPath := filepath.Join(p.cfg.Site.Output, filepath.FromSlash(outRel))

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.OutputError("create output directory", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return errors.OutputError("create output file", err)
	}
	defer f.Close()

	if err := htmltoken.Serialize(f, stream); err != nil {
		return errors.OutputError("serialize output", err).WithContext("path", outPath)
	}
	return nil
}

func (p *Pipeline) writeReport(result *Result) error {
	rep := &report.Report{
		BuildID:     result.BuildID,
		GeneratedAt: time.Now(),
		Base:        p.cfg.Site.Base,
	}
	for _, doc := range result.Documents {
		rep.Documents = append(rep.Documents, report.DocumentLinks{
			Path:  doc.Path,
			Route: doc.Route,
			Links: doc.Links,
		})
	}
	if err := report.WriteJSON(p.cfg.Report.Path, rep); err != nil {
		return errors.OutputError("write report", err).WithContext("path", p.cfg.Report.Path)
	}
	slog.Info("Wrote link report", slog.String("path", p.cfg.Report.Path), logfields.Documents(len(rep.Documents)))
	return nil
}

package veille

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shalom-302/scraapbackend/internal/domain"
	"github.com/Shalom-302/scraapbackend/internal/ports"
	"github.com/Shalom-302/scraapbackend/internal/scraper"
)

// Error markers recorded on article rows. The French wording is part of the
// stored data contract consumed by the curation frontend.
const (
	markerDownloadFailed      = "Téléchargement échoué"
	markerInsufficientContent = "Contenu insuffisant"
	markerLLMFailure          = "Erreur du LLM"
	markerExtractionFailure   = "Erreur d'extraction"
)

const (
	defaultMaxSteps        = 15
	defaultMinContentChars = 250
)

// State enumerates the run state machine. A run walks
// Planning -> Dispatching (once per site) -> Analyzing -> Done.
type State int

const (
	StatePlanning State = iota
	StateDispatching
	StateAnalyzing
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePlanning:
		return "PLANNING"
	case StateDispatching:
		return "DISPATCHING"
	case StateAnalyzing:
		return "ANALYZING"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// run is the mutable per-invocation state, owned by the workflow for the
// duration of one run and discarded afterwards.
type run struct {
	query       string
	pending     []string
	currentSite string
	found       []domain.FoundArticle
	processed   int
}

// Deps wires all driven adapters into the workflow.
type Deps struct {
	Registry   *scraper.Registry
	Fetcher    ports.Fetcher
	Extractor  ports.Extractor
	Analyzer   ports.Analyzer
	Repository ports.ArticleRepository
	Logger     *slog.Logger

	// MaxSteps caps total state transitions; <= 0 uses the default of 15.
	MaxSteps int
	// MinContentChars gates analysis; <= 0 uses the default of 250.
	MinContentChars int
}

// Workflow drives one veille run to completion: discover candidates per
// site, deduplicate by URL, extract, analyze, and persist every outcome.
type Workflow struct {
	registry        *scraper.Registry
	fetcher         ports.Fetcher
	extractor       ports.Extractor
	analyzer        ports.Analyzer
	repository      ports.ArticleRepository
	logger          *slog.Logger
	maxSteps        int
	minContentChars int
}

// NewWorkflow constructs the orchestration component.
func NewWorkflow(deps Deps) *Workflow {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxSteps := deps.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	minChars := deps.MinContentChars
	if minChars <= 0 {
		minChars = defaultMinContentChars
	}
	return &Workflow{
		registry:        deps.Registry,
		fetcher:         deps.Fetcher,
		extractor:       deps.Extractor,
		analyzer:        deps.Analyzer,
		repository:      deps.Repository,
		logger:          logger,
		maxSteps:        maxSteps,
		minContentChars: minChars,
	}
}

// Run executes one veille run. Per-site and per-article failures are
// absorbed and recorded; only persistence failures and the transition bound
// are fatal.
func (w *Workflow) Run(ctx context.Context, req domain.RunRequest) (domain.RunSummary, error) {
	w.logger.Info("veille run started", "run_id", req.ID, "query", req.Query)

	r := &run{query: req.Query, pending: w.registry.Sites()}

	state := StatePlanning
	for steps := 0; state != StateDone; steps++ {
		if steps >= w.maxSteps {
			return domain.RunSummary{Status: domain.RunStatusFailure, Processed: r.processed},
				fmt.Errorf("%w: %d transitions for %d sites", domain.ErrRunBoundExceeded, steps, len(w.registry.Sites()))
		}

		next, err := w.step(ctx, state, r)
		if err != nil {
			return domain.RunSummary{Status: domain.RunStatusFailure, Processed: r.processed}, err
		}
		state = next
	}

	w.logger.Info("veille run finished", "run_id", req.ID, "processed", r.processed)
	return domain.RunSummary{Status: domain.RunStatusSuccess, Processed: r.processed}, nil
}

// step performs the side effects of one state and returns the next one.
func (w *Workflow) step(ctx context.Context, state State, r *run) (State, error) {
	switch state {
	case StatePlanning:
		if len(r.pending) == 0 {
			r.currentSite = ""
			return StateAnalyzing, nil
		}
		r.currentSite = r.pending[0]
		r.pending = r.pending[1:]
		return StateDispatching, nil

	case StateDispatching:
		w.dispatch(ctx, r)
		return StatePlanning, nil

	case StateAnalyzing:
		if err := w.analyzeAndSave(ctx, r); err != nil {
			return StateDone, err
		}
		return StateDone, nil

	default:
		return StateDone, fmt.Errorf("unexpected workflow state %s", state)
	}
}

// dispatch scrapes the current site. Any failure here costs at most that
// site's candidates; it is logged and the run moves on.
func (w *Workflow) dispatch(ctx context.Context, r *run) {
	site := r.currentSite

	adapter, err := w.registry.Resolve(site)
	if err != nil {
		w.logger.Warn("no adapter for site", "site", site, "error", err)
		return
	}

	raw, err := w.fetcher.Fetch(ctx, site)
	if err != nil {
		w.logger.Warn("site fetch failed", "site", site, "error", err)
		return
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		w.logger.Warn("site parse failed", "site", site, "error", err)
		return
	}

	base, err := url.Parse(site)
	if err != nil {
		w.logger.Warn("invalid site url", "site", site, "error", err)
		return
	}

	candidates := adapter.Parse(doc, base)
	w.logger.Info("site scraped", "site", site, "candidates", len(candidates))
	r.found = append(r.found, candidates...)
}

// analyzeAndSave deduplicates candidates by URL, then extracts, analyzes,
// and persists each one. Every candidate gets a row: a successful analysis
// or an annotated failure, never silent loss.
func (w *Workflow) analyzeAndSave(ctx context.Context, r *run) error {
	unique := dedupByURL(r.found)
	if len(unique) == 0 {
		w.logger.Info("no unique candidates to process")
		return nil
	}
	w.logger.Info("processing unique candidates", "count", len(unique))

	for _, candidate := range unique {
		up := domain.ArticleUpsert{
			URL:    candidate.URL,
			Title:  candidate.Title,
			Source: candidate.Source,
		}

		w.process(ctx, &up)

		if _, err := w.repository.UpsertByURL(ctx, up); err != nil {
			return fmt.Errorf("persist article %s: %w", candidate.URL, err)
		}
		r.processed++
	}

	return nil
}

// process fills the upsert with extraction and analysis results, or with the
// error marker describing why the article could not be analyzed.
func (w *Workflow) process(ctx context.Context, up *domain.ArticleUpsert) {
	extraction, err := w.extractor.Extract(ctx, up.URL)
	if err != nil {
		marker := fmt.Sprintf("%s: %v", markerExtractionFailure, err)
		if errors.Is(err, domain.ErrDownloadFailed) {
			marker = markerDownloadFailed
		}
		up.Error = &marker
		w.logger.Warn("extraction failed", "url", up.URL, "error", err)
		return
	}

	if extraction.Date != "" {
		date := extraction.Date
		up.Date = &date
	}
	content := extraction.Content
	up.Content = &content

	if len(content) <= w.minContentChars {
		marker := markerInsufficientContent
		up.Error = &marker
		return
	}

	analysis, err := w.analyzer.Analyze(ctx, content)
	if err != nil {
		marker := fmt.Sprintf("%s: %v", markerLLMFailure, err)
		up.Error = &marker
		w.logger.Warn("analysis failed", "url", up.URL, "error", err)
		return
	}

	score := analysis.ScorePertinence
	up.Analysis = &analysis
	up.ScorePertinence = &score
}

// dedupByURL keeps first-seen order; when the same URL shows up twice the
// later candidate wins, which is fine since duplicates are content-equivalent.
func dedupByURL(found []domain.FoundArticle) []domain.FoundArticle {
	byURL := make(map[string]domain.FoundArticle, len(found))
	order := make([]string, 0, len(found))
	for _, candidate := range found {
		if _, seen := byURL[candidate.URL]; !seen {
			order = append(order, candidate.URL)
		}
		byURL[candidate.URL] = candidate
	}

	unique := make([]domain.FoundArticle, 0, len(order))
	for _, u := range order {
		unique = append(unique, byURL[u])
	}
	return unique
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/jimezsa/jobassist/internal/config"
	"github.com/jimezsa/jobassist/internal/export"
	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/rank"
	"github.com/jimezsa/jobassist/internal/search"
	"github.com/jimezsa/jobassist/internal/session"
	"github.com/muesli/termenv"
)

type SearchCmd struct {
	Keywords string `arg:"" help:"Job title or keywords."`
	CriteriaOptions
	ViewOptions
}

type CriteriaOptions struct {
	Location        string `help:"Job location."`
	JobTypes        string `name:"job-types" help:"Comma-separated job types added to the query (e.g. Full-time,Remote)."`
	Experience      string `help:"Years of experience: 0-1, 1-3, 3-5, 5-10, 10+." enum:"0-1,1-3,3-5,5-10,10+" default:"1-3"`
	Recency         string `help:"Posted within: 1 day, 3 days, 1 week, 2 weeks, 1 month, Any time."`
	Platforms       string `help:"Comma-separated platforms to query (default from config)."`
	JobsPerPlatform int    `name:"jobs-per-platform" short:"n" help:"Maximum listings per platform."`
	NoAPI           bool   `name:"no-api" help:"Skip the jobs API and use standard search only."`
	Proxies         string `help:"Comma-separated proxy URLs for standard search." env:"JOBASSIST_PROXIES"`
}

type ViewOptions struct {
	Sort           string `help:"Sort by: relevance, most-recent, company, location." default:"relevance"`
	FilterPlatform string `name:"filter-platform" help:"Show only listings from this platform." default:"All Platforms"`
	Detail         int    `help:"Print the full listing at this index of the sorted view." default:"-1"`
	Format         string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links          string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output         string `name:"output" short:"o" help:"Write output to a file."`
	Out            string `name:"out" help:"Alias for --output."`
}

func (s *SearchCmd) Run(ctx *Context) error {
	criteria, err := buildCriteria(s.Keywords, s.CriteriaOptions, ctx.Config)
	if err != nil {
		return err
	}
	if _, err := rank.ParseSortKey(s.Sort); err != nil {
		return err
	}

	service, err := newSearchService(ctx, s.Proxies)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	stopIndicator := startSearchIndicator(ctx)
	outcome, err := service.Run(runCtx, criteria)
	if stopIndicator != nil {
		stopIndicator()
	}
	if err != nil {
		return err
	}

	if ctx.UI != nil {
		ctx.UI.Warnings(outcome.Warnings)
	}

	sess := session.New("")
	sess.Replace(criteria, outcome.Listings, outcome.Warnings, time.Now())
	if err := renderView(ctx, sess, s.ViewOptions); err != nil {
		return err
	}

	printSearchSummary(ctx, outcome)
	return nil
}

// buildCriteria merges flags over config defaults and validates them.
func buildCriteria(keywords string, opts CriteriaOptions, cfg config.Config) (models.SearchCriteria, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return models.SearchCriteria{}, search.ErrMissingKeywords
	}
	if !search.ValidExperience(opts.Experience) {
		return models.SearchCriteria{}, fmt.Errorf("unknown experience: %s", opts.Experience)
	}

	recency := firstNonEmpty(opts.Recency, cfg.Recency, search.DefaultRecency)
	if !validRecency(recency) {
		return models.SearchCriteria{}, fmt.Errorf("unknown recency %q: use one of %s", recency, strings.Join(search.RecencyLabels, ", "))
	}

	platforms := config.SplitCSV(opts.Platforms)
	if len(platforms) == 0 {
		platforms = cfg.Platforms
	}

	return models.SearchCriteria{
		Keywords:        keywords,
		Location:        strings.TrimSpace(firstNonEmpty(opts.Location, cfg.DefaultLocation)),
		JobTypes:        config.SplitCSV(opts.JobTypes),
		Experience:      firstNonEmpty(opts.Experience, search.DefaultExperience),
		Recency:         recency,
		Platforms:       platforms,
		JobsPerPlatform: defaultInt(opts.JobsPerPlatform, defaultInt(cfg.JobsPerPlatform, search.DefaultJobsPerPlatform)),
		UseAPI:          !opts.NoAPI,
	}, nil
}

func validRecency(label string) bool {
	for _, known := range search.RecencyLabels {
		if strings.EqualFold(strings.TrimSpace(label), known) {
			return true
		}
	}
	return false
}

// renderView ranks the session's results and writes either the table/export
// or the detail of one selected listing.
func renderView(ctx *Context, sess *session.Session, opts ViewOptions) error {
	key, err := rank.ParseSortKey(opts.Sort)
	if err != nil {
		return err
	}
	view := sess.View(rank.Ranker{}, opts.FilterPlatform, key)

	var selected *models.JobListing
	if opts.Detail >= 0 {
		listing, err := sess.Select(view, opts.Detail)
		if err != nil {
			return err
		}
		selected = &listing
	}

	outputPath := resolveOutputPath(opts)
	writer := ctx.Out
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && outputPath == ""
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(opts.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	writeOpts := export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
	}

	if selected != nil {
		return export.WriteDetail(writer, *selected, writeOpts)
	}

	format, err := resolveFormat(ctx, opts, outputPath)
	if err != nil {
		return err
	}
	return export.WriteListings(writer, view, format, writeOpts)
}

func printSearchSummary(ctx *Context, outcome search.Outcome) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", formatSearchSummary(outcome))
}

func formatSearchSummary(outcome search.Outcome) string {
	source := "api"
	if outcome.UsedFallback {
		source = "standard"
	}
	counts := countListingsByPlatform(outcome.Listings)
	if len(counts) == 0 {
		return fmt.Sprintf("summary: jobs=0 source=%s by_platform=none", source)
	}

	parts := make([]string, 0, len(counts))
	for _, count := range counts {
		parts = append(parts, fmt.Sprintf("%s:%d", count.platform, count.total))
	}
	return fmt.Sprintf("summary: jobs=%d source=%s by_platform=%s", len(outcome.Listings), source, strings.Join(parts, ", "))
}

type platformCount struct {
	platform string
	total    int
}

func countListingsByPlatform(listings []models.JobListing) []platformCount {
	totals := make(map[string]int, len(listings))
	for _, listing := range listings {
		platform := strings.ToLower(strings.TrimSpace(listing.Platform))
		if platform == "" {
			platform = "unknown"
		}
		totals[platform]++
	}

	counts := make([]platformCount, 0, len(totals))
	for platform, total := range totals {
		counts = append(counts, platformCount{platform: platform, total: total})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].platform < counts[j].platform
	})
	return counts
}

func resolveOutputPath(opts ViewOptions) string {
	if opts.Output != "" {
		return opts.Output
	}
	return opts.Out
}

func resolveFormat(ctx *Context, opts ViewOptions, outputPath string) (export.Format, error) {
	if outputPath != "" {
		if ctx.JSONOutput {
			return export.FormatJSON, nil
		}
		if ctx.PlainText {
			return export.FormatTSV, nil
		}
		if opts.Format == "" {
			return export.FormatCSV, nil
		}
		return export.ParseFormat(opts.Format)
	}

	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return export.ParseFormat(opts.Format)
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startSearchIndicator(ctx *Context) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2KSearching... %ds %s", seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

const (
	verifiedMark   = "✓"
	unverifiedMark = "?"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func WriteListings(w io.Writer, listings []models.JobListing, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, listings)
	case FormatCSV:
		return writeCSV(w, listings, ',')
	case FormatTSV:
		return writeCSV(w, listings, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, listings)
	default:
		return writeTable(w, listings, opts)
	}
}

func writeJSON(w io.Writer, listings []models.JobListing) error {
	if listings == nil {
		listings = []models.JobListing{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}

func writeCSV(w io.Writer, listings []models.JobListing, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, listing := range listings {
		if err := writer.Write(csvRow(listing)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, listings []models.JobListing, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for i, listing := range listings {
		fmt.Fprintln(tw, strings.Join(tableRow(i, listing, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, listings []models.JobListing) error {
	if len(listings) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, listing := range listings {
		urlLine := "  Apply: -"
		if link := safe(listing.ApplyURL); link != "" {
			urlLine = fmt.Sprintf("  Apply: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(listing.Title), safe(listing.Company)),
			fmt.Sprintf("  Location: %s", safe(listing.Location)),
			fmt.Sprintf("  Platform: %s", safe(listing.Platform)),
			fmt.Sprintf("  Posted: %s", safe(listing.DatePosted)),
			fmt.Sprintf("  Type: %s", safe(listing.JobType)),
			urlLine,
		}
		if !listing.IsRealJob {
			lines = append(lines, "  Verified: no")
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteDetail prints the full record of one listing.
func WriteDetail(w io.Writer, listing models.JobListing, opts WriteOptions) error {
	output := termenv.NewOutput(w)
	title := safe(listing.Title)
	if opts.ColorEnabled {
		title = output.String(title).Bold().String()
	}
	apply := safe(listing.ApplyURL)
	if apply == "" {
		apply = "-"
	} else if opts.Hyperlinks {
		apply = hyperlink(apply, apply)
	}
	verified := "no, found by standard search"
	if listing.IsRealJob {
		verified = "yes"
	}

	lines := []string{
		title,
		fmt.Sprintf("Company:  %s", safe(listing.Company)),
		fmt.Sprintf("Location: %s", safe(listing.Location)),
		fmt.Sprintf("Platform: %s", safe(listing.Platform)),
		fmt.Sprintf("Posted:   %s", safe(listing.DatePosted)),
		fmt.Sprintf("Type:     %s", safe(listing.JobType)),
		fmt.Sprintf("Verified: %s", verified),
		fmt.Sprintf("Apply:    %s", apply),
		"",
		safe(listing.Description),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"title",
		"company",
		"location",
		"platform",
		"date_posted",
		"job_type",
		"apply_url",
		"is_real_job",
		"description",
	}
}

func csvRow(listing models.JobListing) []string {
	return []string{
		listing.Title,
		listing.Company,
		listing.Location,
		listing.Platform,
		listing.DatePosted,
		listing.JobType,
		listing.ApplyURL,
		strconv.FormatBool(listing.IsRealJob),
		listing.Description,
	}
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"#",
		"title",
		"company",
		"location",
		"platform",
		"posted",
		"job type",
		"verified",
		"apply",
	}
}

func tableRow(index int, listing models.JobListing, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	link := safe(listing.ApplyURL)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}
	verified := unverifiedMark
	if listing.IsRealJob {
		verified = verifiedMark
	}
	return []string{
		strconv.Itoa(index),
		safe(listing.Title),
		safe(listing.Company),
		safe(listing.Location),
		safe(listing.Platform),
		safe(listing.DatePosted),
		safe(listing.JobType),
		verified,
		displayURL,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}

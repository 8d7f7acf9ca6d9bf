// Package output renders screens to a terminal.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/PuerkitoBio/goquery"

	"github.com/autsoft/hwsw-jobs/internal/ui/jobdetail"
	"github.com/autsoft/hwsw-jobs/internal/ui/joblist"
)

// ConsolePrinter writes screens as plain text tables.
type ConsolePrinter struct {
	w io.Writer
}

// NewConsolePrinter creates a printer writing to w.
func NewConsolePrinter(w io.Writer) *ConsolePrinter {
	return &ConsolePrinter{w: w}
}

// JobList prints a job list state.
func (cp *ConsolePrinter) JobList(s joblist.State) error {
	switch st := s.(type) {
	case joblist.Loading:
		_, err := fmt.Fprintln(cp.w, "Loading...")
		return err
	case joblist.Failed:
		_, err := fmt.Fprintf(cp.w, "Could not load jobs: %s\n", st.Message())
		return err
	case joblist.Ready:
		return cp.listings(st.Listings)
	default:
		panic(fmt.Sprintf("output: unknown job list state %T", s))
	}
}

func (cp *ConsolePrinter) listings(rows []joblist.Listing) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(cp.w, "No jobs found.")
		return err
	}

	w := tabwriter.NewWriter(cp.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLOCATION")
	fmt.Fprintln(w, "--\t-----\t-------\t--------")
	for _, l := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l.Title, l.Company, l.Location)
	}
	return w.Flush()
}

// JobDetail prints a job detail state.
func (cp *ConsolePrinter) JobDetail(s jobdetail.State) error {
	switch st := s.(type) {
	case jobdetail.Loading:
		_, err := fmt.Fprintln(cp.w, "Loading...")
		return err
	case jobdetail.Failed:
		_, err := fmt.Fprintf(cp.w, "Could not load job: %s\n", st.Message())
		return err
	case jobdetail.Loaded:
		return cp.job(st.Job)
	default:
		panic(fmt.Sprintf("output: unknown job detail state %T", s))
	}
}

func (cp *ConsolePrinter) job(j jobdetail.DetailedJob) error {
	w := tabwriter.NewWriter(cp.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "POSITION\t%s\n", j.PositionInfo)
	fmt.Fprintf(w, "LOCATION\t%s\n", j.Location)
	if j.CompanyLogo != nil {
		fmt.Fprintf(w, "LOGO\t%s\n", *j.CompanyLogo)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	text, err := PlainText(j.Description)
	if err != nil {
		text = j.Description
	}
	_, err = fmt.Fprintf(cp.w, "\n%s\n", text)
	return err
}

// PlainText flattens an html fragment to text, one block element per line.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse description: %w", err)
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	doc.Find("p, li, h1, h2, h3, h4, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

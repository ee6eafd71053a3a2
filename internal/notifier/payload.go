package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"nygaming/pkg/contracts/domain"
)

// Attachment is one file carried by the notification.
type Attachment struct {
	Filename string
	Content  []byte
}

// Payload is the structured notification handed to the transport: the
// core decides whether and what to send, never how.
type Payload struct {
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// BuildPayload assembles the notification for a run: subject with the run
// timestamp, HTML summary of the comparison, and the workbook plus current
// CSV as attachments. Pure function; the transport is elsewhere.
func BuildPayload(result *domain.ComparisonResult, warnings []string, runTime time.Time, workbook, snapshotCSV []byte) Payload {
	p := Payload{
		Subject:  fmt.Sprintf("NY Gaming Data Update - %s", runTime.Format("2006-01-02 15:04")),
		HTMLBody: buildBody(result, warnings, runTime),
	}

	if len(workbook) > 0 {
		p.Attachments = append(p.Attachments, Attachment{
			Filename: fmt.Sprintf("ny_gaming_analysis_%s.xlsx", runTime.Format("20060102_150405")),
			Content:  workbook,
		})
	}
	if len(snapshotCSV) > 0 {
		p.Attachments = append(p.Attachments, Attachment{
			Filename: "ny_gaming_data.csv",
			Content:  snapshotCSV,
		})
	}

	return p
}

// buildBody renders the HTML summary shown in the email client.
func buildBody(result *domain.ComparisonResult, warnings []string, runTime time.Time) string {
	var b strings.Builder

	b.WriteString("<html><body>")
	b.WriteString("<h2>NY Gaming Data Update Report</h2>")
	fmt.Fprintf(&b, "<p><strong>Timestamp:</strong> %s</p>", runTime.Format("2006-01-02 15:04:05"))

	b.WriteString("<h3>Data Summary</h3><ul>")
	fmt.Fprintf(&b, "<li><strong>Total Records:</strong> %d</li>", result.TotalRecords)
	fmt.Fprintf(&b, "<li><strong>Date Range:</strong> %s</li>", html.EscapeString(result.DateRange))
	fmt.Fprintf(&b, "<li><strong>Brands:</strong> %d</li>", result.BrandCount)
	b.WriteString("</ul>")

	switch {
	case result.IsNewData:
		b.WriteString("<h3>New Data Detected</h3><p>First data collection or major update.</p>")
	case len(result.Events) > 0:
		b.WriteString("<h3>Changes Detected</h3><ul>")
		for _, e := range result.Events {
			fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>",
				html.EscapeString(titleCase(string(e.Type))),
				html.EscapeString(e.Description))
		}
		b.WriteString("</ul>")
	default:
		b.WriteString("<h3>No Changes</h3><p>No significant changes detected.</p>")
	}

	if len(warnings) > 0 {
		b.WriteString("<h3>Collection Warnings</h3><ul>")
		for _, w := range warnings {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(w))
		}
		b.WriteString("</ul>")
	}

	b.WriteString("<hr><p><em>Automated report from NY Gaming Data Monitor.</em></p></body></html>")
	return b.String()
}

// titleCase turns an event type like "new_week_data" into "New Week Data".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Package report renders a run's diagnostics and dataset summary as Markdown
// for the ops surface and CLI output.
package report

import (
	"fmt"
	"strings"

	"lawatlas/domain/canonical"
)

// Render produces the run-level Markdown report. It is always produced
// alongside the canonical dataset, even for a run with zero ingested
// workbooks.
func Render(dataset *canonical.Dataset, diag *canonical.Diagnostics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Ingestion Run %s\n\n", dataset.RunID)
	fmt.Fprintf(&b, "Generated %s, fingerprint `%s`\n\n",
		dataset.CreatedAt.Format("2006-01-02 15:04:05 MST"), dataset.Fingerprint())

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Workbooks ingested: %d\n", diag.WorkbooksIngested)
	fmt.Fprintf(&b, "- Workbooks rejected: %d\n", len(diag.RejectedWorkbooks))
	fmt.Fprintf(&b, "- Rows normalized: %d\n", diag.RowsNormalized)
	fmt.Fprintf(&b, "- Rows rejected: %d\n", len(diag.RejectedRows))
	fmt.Fprintf(&b, "- Conflicts: %d\n", len(diag.Conflicts))
	fmt.Fprintf(&b, "- States with evidence: %d of %d\n", diag.Coverage.StatesWithEvidence, len(dataset.Records))
	fmt.Fprintf(&b, "- Coverage mean/median/stddev: %.3f / %.3f / %.3f\n\n",
		diag.Coverage.Mean, diag.Coverage.Median, diag.Coverage.StdDev)

	if len(diag.SkippedCategories) > 0 {
		b.WriteString("## Skipped categories (no rubric entry)\n\n")
		for _, f := range diag.SkippedCategories {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	if len(diag.RejectedWorkbooks) > 0 {
		b.WriteString("## Rejected workbooks\n\n")
		b.WriteString("| Workbook | Reason |\n|---|---|\n")
		for _, r := range diag.RejectedWorkbooks {
			fmt.Fprintf(&b, "| %s | %s |\n", r.Workbook, r.Reason)
		}
		b.WriteString("\n")
	}

	if len(diag.RejectedRows) > 0 {
		b.WriteString("## Rejected rows\n\n")
		b.WriteString("| Workbook | Row | Token | Reason |\n|---|---|---|---|\n")
		for _, r := range diag.RejectedRows {
			fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", r.Workbook, r.RowIndex, r.Token, r.Reason)
		}
		b.WriteString("\n")
	}

	if len(diag.Conflicts) > 0 {
		b.WriteString("## Conflicts\n\n")
		b.WriteString("| State | Category | Primary | Discarded |\n|---|---|---|---|\n")
		for _, c := range diag.Conflicts {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				c.State, c.Category, truncate(c.PrimaryValue, 60), truncate(c.DiscardedValue, 60))
		}
		b.WriteString("\n")
	}

	b.WriteString("## States\n\n")
	b.WriteString("| Code | Name | Region | Aggregate | Coverage |\n|---|---|---|---|---|\n")
	for _, r := range dataset.Records {
		agg := "null"
		if r.Aggregate != nil {
			agg = fmt.Sprintf("%.3f", *r.Aggregate)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.0f%% |\n",
			r.Code, r.Name, r.Region, agg, r.DataAvailability*100)
	}

	return b.String()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

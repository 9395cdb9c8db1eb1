package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/codeguard/domain"
)

// ReportFormatterImpl implements the domain.ReportFormatter interface
type ReportFormatterImpl struct{}

// NewReportFormatter creates a new report formatter
func NewReportFormatter() *ReportFormatterImpl {
	return &ReportFormatterImpl{}
}

// Format renders result in the format named by opts.
// Only pairs at or above opts.MinVerdict are written; summary, units and
// clusters always describe the whole batch.
func (f *ReportFormatterImpl) Format(result *domain.BatchResult, opts domain.ReportOptions, writer io.Writer) error {
	if result == nil {
		return domain.NewInvalidInputError("result cannot be nil", nil)
	}
	view := reportView(result, opts)

	switch opts.Format {
	case domain.OutputFormatText, "":
		return f.formatText(view, opts, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, view)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, view)
	case domain.OutputFormatCSV:
		return f.formatCSV(view, writer)
	default:
		return domain.NewUnsupportedFormatError(string(opts.Format))
	}
}

// reportView returns a shallow copy of result holding only the pairs to show
func reportView(result *domain.BatchResult, opts domain.ReportOptions) *domain.BatchResult {
	view := *result
	pairs := opts.FilterPairs(result.Pairs)
	view.Pairs = make([]domain.PairRecord, len(pairs))
	copy(view.Pairs, pairs)
	if !opts.ShowEvidence {
		for i := range view.Pairs {
			view.Pairs[i].Evidence = nil
		}
	}
	return &view
}

func (f *ReportFormatterImpl) formatText(result *domain.BatchResult, opts domain.ReportOptions, w io.Writer) error {
	u := NewFormatUtils(opts.Colored)
	var b strings.Builder

	b.WriteString(u.FormatMainHeader("CodeGuard Plagiarism Report"))

	s := result.Summary
	b.WriteString(u.FormatSectionHeader("Summary"))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Preset", result.Preset.Name))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Files", fmt.Sprintf("%d (%d degraded)", s.Files, s.DegradedFiles)))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Pairs compared", fmt.Sprintf("%d/%d", s.ComparedPairs, s.TotalPairs)))
	for _, v := range []domain.Verdict{domain.VerdictPlagiarized, domain.VerdictBorderline, domain.VerdictClean, domain.VerdictUndetermined} {
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, titleCase(string(v)), s.ByVerdict[v]))
	}
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Confidence", fmt.Sprintf("High %d, Medium %d, Low %d",
		s.ByConfidence[domain.ConfidenceHigh], s.ByConfidence[domain.ConfidenceMedium], s.ByConfidence[domain.ConfidenceLow])))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Mean weighted score", fmt.Sprintf("%.3f", s.MeanWeighted)))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Duration", u.FormatDuration(result.Duration)))
	if result.Cancelled {
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Status", "cancelled, results are partial"))
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return domain.NewOutputError("failed to write report", err)
	}

	if len(s.Detectors) > 0 {
		io.WriteString(w, u.FormatSectionHeader("Detectors"))
		rows := make([][]string, 0, len(s.Detectors))
		for _, d := range s.Detectors {
			setting := result.Preset.Setting(d.Kind)
			rows = append(rows, []string{
				string(d.Kind),
				fmt.Sprintf("%.2f", setting.Weight),
				fmt.Sprintf("%.2f", setting.Threshold),
				strconv.Itoa(d.Evaluated),
				strconv.Itoa(d.Degraded),
				strconv.Itoa(d.Votes),
				fmt.Sprintf("%.3f", d.Mean),
				fmt.Sprintf("%.3f", d.StdDev),
				fmt.Sprintf("%.3f", d.Max),
			})
		}
		u.WriteTable(w, []string{"Detector", "Weight", "Threshold", "Evaluated", "Degraded", "Votes", "Mean", "StdDev", "Max"}, rows)
	}

	io.WriteString(w, u.FormatSectionHeader("Pairs"))
	if len(result.Pairs) == 0 {
		io.WriteString(w, u.FormatLabelWithIndent(SectionPadding, "Pairs", "none at or above the selected verdict"))
		io.WriteString(w, "\n")
	} else {
		rows := make([][]string, 0, len(result.Pairs))
		for _, p := range result.Pairs {
			rows = append(rows, []string{
				p.FileA,
				p.FileB,
				u.FormatScore(p.TokenScore),
				u.FormatScore(p.ASTScore),
				u.FormatScore(p.HashScore),
				fmt.Sprintf("%.3f", p.WeightedScore),
				u.FormatVerdict(p.Verdict),
				u.FormatConfidence(p.ConfidenceLevel),
			})
		}
		u.WriteTable(w, []string{"File A", "File B", "Token", "AST", "Hash", "Score", "Verdict", "Confidence"}, rows)
	}

	if opts.ShowEvidence {
		f.writeEvidence(w, u, result.Pairs)
	}
	f.writeDegraded(w, u, result.Units)
	f.writeClusters(w, u, result.Clusters)
	return nil
}

func (f *ReportFormatterImpl) writeEvidence(w io.Writer, u *FormatUtils, pairs []domain.PairRecord) {
	var b strings.Builder
	for _, p := range pairs {
		if len(p.Evidence) == 0 {
			continue
		}
		if p.Verdict != domain.VerdictPlagiarized && p.Verdict != domain.VerdictBorderline {
			continue
		}
		fmt.Fprintf(&b, "%s%s <-> %s\n", strings.Repeat(" ", SectionPadding), p.FileA, p.FileB)
		for _, m := range p.Evidence {
			fmt.Fprintf(&b, "%slines %s ~ lines %s (%d fingerprints)\n",
				strings.Repeat(" ", ItemPadding), m.LinesA, m.LinesB, m.Fingerprints)
		}
	}
	if b.Len() == 0 {
		return
	}
	io.WriteString(w, u.FormatSectionHeader("Evidence"))
	io.WriteString(w, b.String())
	io.WriteString(w, "\n")
}

func (f *ReportFormatterImpl) writeDegraded(w io.Writer, u *FormatUtils, units []domain.UnitStatus) {
	var b strings.Builder
	for _, unit := range units {
		for _, e := range unit.Errors {
			b.WriteString(u.FormatLabelWithIndent(SectionPadding, unit.ID, fmt.Sprintf("%s %s", e.Code, e.Message)))
		}
	}
	if b.Len() == 0 {
		return
	}
	io.WriteString(w, u.FormatSectionHeader("Degraded files"))
	io.WriteString(w, b.String())
	io.WriteString(w, "\n")
}

func (f *ReportFormatterImpl) writeClusters(w io.Writer, u *FormatUtils, clusters []domain.Cluster) {
	if len(clusters) == 0 {
		return
	}
	io.WriteString(w, u.FormatSectionHeader("Clusters"))
	for _, c := range clusters {
		label := fmt.Sprintf("#%d", c.ID)
		value := fmt.Sprintf("%d files, %d pairs, max %.3f: %s", len(c.Members), c.Pairs, c.MaxScore, strings.Join(c.Members, ", "))
		io.WriteString(w, u.FormatLabelWithIndent(SectionPadding, label, value))
	}
	io.WriteString(w, "\n")
}

var csvHeader = []string{
	"file_a", "file_b",
	"token_score", "ast_score", "hash_score",
	"weighted_score", "verdict", "confidence_level",
	"preset_name", "agreement", "margin", "degraded",
}

func (f *ReportFormatterImpl) formatCSV(result *domain.BatchResult, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	for _, p := range result.Pairs {
		degraded := make([]string, len(p.Degraded))
		for i, k := range p.Degraded {
			degraded[i] = string(k)
		}
		row := []string{
			p.FileA,
			p.FileB,
			csvScore(p.TokenScore),
			csvScore(p.ASTScore),
			csvScore(p.HashScore),
			strconv.FormatFloat(p.WeightedScore, 'f', 4, 64),
			string(p.Verdict),
			string(p.ConfidenceLevel),
			p.PresetName,
			strconv.FormatFloat(p.Agreement, 'f', 4, 64),
			strconv.FormatFloat(p.Margin, 'f', 4, 64),
			strings.Join(degraded, ";"),
		}
		if err := cw.Write(row); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV", err)
	}
	return nil
}

func csvScore(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', 4, 64)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

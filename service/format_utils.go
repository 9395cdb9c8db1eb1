package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/codeguard/domain"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data), nil
}

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// EncodeYAML returns a YAML string for the given value.
func EncodeYAML(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", domain.NewOutputError("failed to marshal YAML", err)
	}
	return string(data), nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	SectionPadding = 2
	ItemPadding    = 4
)

// FormatUtils provides shared text formatting helpers
type FormatUtils struct {
	colored bool
}

// NewFormatUtils creates a new format utilities instance
func NewFormatUtils(colored bool) *FormatUtils {
	return &FormatUtils{colored: colored}
}

// FormatMainHeader creates a title underlined with '='
func (f *FormatUtils) FormatMainHeader(title string) string {
	var builder strings.Builder
	if f.colored {
		builder.WriteString(color.New(color.Bold).Sprint(title))
	} else {
		builder.WriteString(title)
	}
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("=", len(title)) + "\n\n")
	return builder.String()
}

// FormatSectionHeader creates an upper-case section title underlined with '-'
func (f *FormatUtils) FormatSectionHeader(title string) string {
	title = strings.ToUpper(title)
	var builder strings.Builder
	if f.colored {
		builder.WriteString(color.New(color.Bold).Sprint(title))
	} else {
		builder.WriteString(title)
	}
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", len(title)) + "\n")
	return builder.String()
}

// FormatLabelWithIndent creates a formatted label with specific indentation
func (f *FormatUtils) FormatLabelWithIndent(indent int, label string, value interface{}) string {
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", indent), label, value)
}

// FormatDuration formats duration in milliseconds consistently
func (f *FormatUtils) FormatDuration(durationMs int64) string {
	return fmt.Sprintf("%dms", durationMs)
}

// FormatScore renders an optional score; nil becomes "-"
func (f *FormatUtils) FormatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *score)
}

// FormatVerdict colours a verdict by severity when colour is enabled
func (f *FormatUtils) FormatVerdict(v domain.Verdict) string {
	if !f.colored {
		return string(v)
	}
	return verdictColor(v).Sprint(string(v))
}

// FormatConfidence colours a confidence level when colour is enabled
func (f *FormatUtils) FormatConfidence(c domain.ConfidenceLevel) string {
	if !f.colored {
		return string(c)
	}
	switch c {
	case domain.ConfidenceHigh:
		return color.New(color.Bold).Sprint(string(c))
	case domain.ConfidenceLow:
		return color.New(color.Faint).Sprint(string(c))
	}
	return string(c)
}

func verdictColor(v domain.Verdict) *color.Color {
	switch v {
	case domain.VerdictPlagiarized:
		return color.New(color.FgRed, color.Bold)
	case domain.VerdictBorderline:
		return color.New(color.FgYellow)
	case domain.VerdictClean:
		return color.New(color.FgGreen)
	}
	return color.New(color.Faint)
}

// WriteTable renders a borderless left-aligned table followed by a blank line
func (f *FormatUtils) WriteTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	fmt.Fprintln(w)
}

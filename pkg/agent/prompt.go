package agent

import (
	"encoding/csv"
	"fmt"
	"strings"

	"data-explorer-be/pkg/frame"
)

// PromptBuilder renders the system prompt that grounds the model in a frame.
type PromptBuilder struct {
	frame      *frame.Frame
	sampleRows int
}

func NewPromptBuilder(f *frame.Frame, sampleRows int) *PromptBuilder {
	return &PromptBuilder{frame: f, sampleRows: sampleRows}
}

func (b *PromptBuilder) Build() string {
	var prompt strings.Builder

	b.writeDataframe(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)

	return prompt.String()
}

func (b *PromptBuilder) writeDataframe(prompt *strings.Builder) {
	rows, cols := b.frame.Shape()
	kinds := b.frame.ColumnKinds()

	prompt.WriteString("<dataframe>\n")
	fmt.Fprintf(prompt, "name: %s\n", b.frame.Name)
	fmt.Fprintf(prompt, "shape: %d rows x %d columns\n", rows, cols)
	prompt.WriteString("columns:\n")
	for i, name := range b.frame.Columns {
		fmt.Fprintf(prompt, "- %s (%s)\n", name, kinds[i])
	}

	fmt.Fprintf(prompt, "first %d rows:\n", len(b.frame.Head(b.sampleRows)))
	w := csv.NewWriter(prompt)
	_ = w.Write(b.frame.Columns)
	_ = w.WriteAll(b.frame.Head(b.sampleRows))
	prompt.WriteString("</dataframe>\n\n")
}

func (b *PromptBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a data analyst answering questions about the dataframe above.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *PromptBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("- Base every answer on the dataframe; say so when the data cannot answer the question.\n")
	prompt.WriteString("- The rows shown are a sample; reason about the full shape when counting.\n")
	prompt.WriteString("- Answer concisely in plain text.\n")
	prompt.WriteString("</guidelines>\n")
}

// Package prompt renders the instruction prompts sent to the LLM. The
// section markers here are a contract with internal/analysis: the parser
// splits completions on these exact strings, so they must change together.
package prompt

import (
	"fmt"
	"strings"

	"github.com/lectura-ai/lectura/internal/models"
)

const (
	MarkerSummary     = "### SUMMARY"
	MarkerNotes       = "### DETAILED NOTES"
	MarkerSuggestions = "### SUGGESTIONS AND RESOURCES"

	// TemplateVersion is recorded on every AnalysisResult so stored results
	// can be traced back to the prompt that produced them.
	TemplateVersion = "v1"
)

func modeNoun(mode models.ProcessingMode) string {
	if mode == models.ModeMeeting {
		return "meeting"
	}
	return "lecture"
}

// Analysis embeds the full transcript into the three-section instruction
// template. The transcript is never truncated here; any size limit is the
// transport's problem.
func Analysis(transcript string, mode models.ProcessingMode) string {
	noun := modeNoun(mode)

	b := strings.Builder{}
	fmt.Fprintf(&b, "You are an expert study assistant. Below is the full transcription of a %s recording.\n", noun)
	fmt.Fprintf(&b, "Produce structured study material in exactly three sections, each introduced by its marker line.\n\n")
	fmt.Fprintf(&b, "%s\nA concise summary of the %s (a few paragraphs).\n\n", MarkerSummary, noun)
	fmt.Fprintf(&b, "%s\nThorough, well-organized notes covering every topic discussed, suitable for revision.\n\n", MarkerNotes)
	fmt.Fprintf(&b, "%s\nFurther reading, exercises, and resources a student should look at next.\n\n", MarkerSuggestions)
	fmt.Fprintf(&b, "TRANSCRIPTION:\n%s\n", transcript)
	return b.String()
}

// QAContext is the material a question is answered against. If UserContext
// is set it takes the place of the synthesized block.
type QAContext struct {
	UserContext   string
	Summary       string
	Notes         string
	Transcription string
}

func (c QAContext) block() string {
	if strings.TrimSpace(c.UserContext) != "" {
		return fmt.Sprintf("User provided context: %s\n\nFull Transcription:\n%s", c.UserContext, c.Transcription)
	}
	return fmt.Sprintf("Summary:\n%s\n\nNotes:\n%s\n\nFull Transcription:\n%s", c.Summary, c.Notes, c.Transcription)
}

// QA renders the question-answering prompt. The model is instructed to say
// so when the content cannot answer the question, rather than guess.
func QA(c QAContext, question string) string {
	b := strings.Builder{}
	b.WriteString("You are an AI assistant helping a user understand a recorded session.\n")
	b.WriteString("Based on the provided content, answer the following question.\n")
	b.WriteString("If the answer is not directly available in the content, state that you cannot answer based on the provided text.\n\n")
	b.WriteString("---\nCONTENT:\n")
	b.WriteString(c.block())
	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "USER QUESTION: %s\n\nANSWER:\n", question)
	return b.String()
}

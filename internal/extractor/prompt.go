// Package extractor turns free-text photo descriptions into structured
// metadata records by delegating inference to an LLM provider.
package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/snapmeta/snapmeta/pkg/photometa"
)

const systemPrompt = `You are a photo metadata extractor. Do not wrap your JSON in triple backticks or code fences. Return valid JSON only.`

// GetSystemPrompt returns the system prompt sent with every request.
func GetSystemPrompt() string {
	return systemPrompt
}

// BuildFreshPrompt renders the fresh-extraction prompt: the full field
// template plus the inference rules the model must follow.
func BuildFreshPrompt(query string) string {
	var prompt strings.Builder

	fmt.Fprintf(&prompt, "User input: %q\n", query)
	prompt.WriteString("Based on the user input, please generate a JSON object with the following photo metadata fields:\n")
	prompt.WriteString(renderRecord(photometa.Template()))
	prompt.WriteString("\n\n")
	prompt.WriteString("Infer values where possible. If a field cannot be determined, use null.\n")
	prompt.WriteString("You are allowed to infer values based on context, for example, if a country or city is provided, you can impute a plausible latitude and longitude in that area.\n")
	prompt.WriteString("However, do not invent values if you have no clue; leave them as null unless you are 99% sure of your guess.\n")
	prompt.WriteString(countryRule)
	prompt.WriteString(outputRule)

	return prompt.String()
}

// BuildRefinePrompt renders the refinement prompt: the previous record plus
// the merge rules for applying a natural-language correction.
func BuildRefinePrompt(prev photometa.Record, correction string) string {
	var prompt strings.Builder

	prompt.WriteString("Here is the current JSON object of photo metadata:\n")
	prompt.WriteString(renderRecord(prev))
	prompt.WriteString("\n\n")
	fmt.Fprintf(&prompt, "The user has provided this new information:\n%q\n\n", correction)
	prompt.WriteString("Please update the JSON object above based on the new information.\n")
	prompt.WriteString("If the new information provides a value for a field, use it.\n")
	prompt.WriteString("If the new information implies a field should be null (e.g., \"I forgot the year\"), set it to null.\n")
	prompt.WriteString("Otherwise, preserve existing non-null values from the provided JSON object.\n")
	prompt.WriteString(countryRule)
	prompt.WriteString(outputRule)

	return prompt.String()
}

const countryRule = "For the 'photo_location_country' field, if a country is identified by an alias (e.g., \"USA\", \"UK\"), please use its canonical name (e.g., \"United States\", \"United Kingdom\").\n"

const outputRule = "Return *only* the JSON object (the metadata map itself), not wrapped in any other structure and not fenced as a code block.\n"

// renderRecord serializes a record with keys in canonical order, indented
// for readability in the prompt.
func renderRecord(rec photometa.Record) string {
	compact, err := rec.MarshalOrdered()
	if err != nil {
		// Records hold JSON scalars only; marshaling cannot realistically fail.
		return "{}"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return string(compact)
	}
	return out.String()
}

package llm

import (
	"strings"
)

// ExcerptLimit bounds the document excerpt embedded in the simplified
// (tier 1) prompt.
const ExcerptLimit = 3000

// BuildPrompt selects the prompt tier purely by attempt index: 0 is the
// detailed schema-first instruction with the full document text, 1 is a
// shortened instruction with a bounded excerpt, and 2+ is a schema-only
// probe with no document content. No state is kept between calls.
func BuildPrompt(attempt int, in PromptInput) string {
	switch {
	case attempt <= 0:
		return buildDetailedPrompt(in)
	case attempt == 1:
		return buildSimplifiedPrompt(in)
	default:
		return buildSchemaOnlyPrompt()
	}
}

func buildDetailedPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("You are a specialist in B3 (Brasil, Bolsa, Balcão) brokerage trade notes. ")
	b.WriteString("Extract ALL trades and ALL fee totals from the trade note below into structured JSON.\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- A note may span multiple pages; process every page.\n")
	b.WriteString("- One table row = one trade object. Never consolidate or group rows.\n")
	b.WriteString("- Look for sections such as \"Negócios realizados\" and \"Resumo dos Negócios\" for trades, ")
	b.WriteString("and \"Resumo Financeiro\" or \"Total das despesas\" for fees.\n")
	b.WriteString("- For options, also fill strikePrice and expirationDate; otherwise set them to null.\n")
	b.WriteString("- If a note spans multiple pages, sum its fee totals across pages.\n\n")

	b.WriteString("The response MUST be a single JSON object matching this schema exactly:\n")
	b.WriteString(indentedSchemaJSON())
	b.WriteString("\n\n")

	if in.DocumentText != "" {
		b.WriteString("=== DOCUMENT CONTENT ===\n")
		b.WriteString(in.DocumentText)
		b.WriteString("\n=== END OF CONTENT ===\n\n")
	} else {
		b.WriteString("PDF FILE: ")
		b.WriteString(in.FilePath)
		b.WriteString("\nRead ALL pages of the file with your file tools before answering.\n\n")
	}

	b.WriteString("CRITICAL: return ONLY valid JSON. No comments, no markdown fences, no explanations before or after. ")
	b.WriteString("The output must be directly parseable.")
	return b.String()
}

func buildSimplifiedPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("Extract every trade and fee total from this B3 brokerage note as JSON.\n\n")

	if in.DocumentText != "" {
		excerpt := in.DocumentText
		truncated := false
		if len(excerpt) > ExcerptLimit {
			excerpt = excerpt[:ExcerptLimit]
			truncated = true
		}
		b.WriteString("DOCUMENT EXCERPT:\n")
		b.WriteString(excerpt)
		if truncated {
			b.WriteString("\n…(truncated)")
		}
		b.WriteString("\n\n")
	} else {
		b.WriteString("PDF FILE: ")
		b.WriteString(in.FilePath)
		b.WriteString(" — read every page.\n\n")
	}

	b.WriteString("Return ONLY a JSON object of the form ")
	b.WriteString(`{"trades": [...], "fees": [...]}`)
	b.WriteString(" where each trade has orderNumber, tradeDate, operationType (C or V), marketType, ")
	b.WriteString("market (BOVESPA or BMF), ticker, quantity, price, totalValue, strikePrice, expirationDate, ")
	b.WriteString("and each fee has orderNumber and totalFees. One table row per trade. No commentary.")
	return b.String()
}

// buildSchemaOnlyPrompt is the last-resort probe: no document content,
// just the required shape. It mostly tests that the agent is reachable
// and can comply with the output format.
func buildSchemaOnlyPrompt() string {
	var b strings.Builder
	b.WriteString("Respond with a single JSON object matching this schema exactly:\n")
	b.WriteString(indentedSchemaJSON())
	b.WriteString("\n\nIf you extracted trade data from earlier context, include it; ")
	b.WriteString("otherwise return the object with empty \"trades\" and \"fees\" arrays. ")
	b.WriteString("Output raw JSON only, with no markdown and no commentary.")
	return b.String()
}

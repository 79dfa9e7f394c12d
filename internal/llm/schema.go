package llm

import "encoding/json"

// SchemaVersion of the extraction contract below.
const SchemaVersion = "1.0"

// ExtractionJSONSchema returns the trade/fee contract as a JSON-Schema
// (draft 2020-12 subset) generic map. It is embedded verbatim into the
// prompts and compiled locally as the structural validation backstop.
func ExtractionJSONSchema() map[string]any {
	trade := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"orderNumber":    map[string]any{"type": "string", "description": "trade note number"},
			"tradeDate":      map[string]any{"type": "string", "description": "session date as printed"},
			"operationType":  map[string]any{"type": "string", "enum": []string{"C", "V"}, "description": "C=buy, V=sell"},
			"marketType":     map[string]any{"type": "string", "description": "market segment (VISTA, OPCAO, ...)"},
			"market":         map[string]any{"type": "string", "enum": []string{"BOVESPA", "BMF"}},
			"ticker":         map[string]any{"type": "string"},
			"quantity":       map[string]any{"type": "integer"},
			"price":          map[string]any{"type": "number"},
			"totalValue":     map[string]any{"type": "number"},
			"strikePrice":    map[string]any{"type": []string{"number", "null"}, "description": "options only"},
			"expirationDate": map[string]any{"type": []string{"string", "null"}},
		},
		"required": []string{
			"orderNumber", "tradeDate", "operationType", "marketType",
			"market", "ticker", "quantity", "price", "totalValue",
		},
	}

	fee := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"orderNumber": map[string]any{"type": "string"},
			"totalFees":   map[string]any{"type": "number"},
		},
		"required": []string{"orderNumber", "totalFees"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"trades": map[string]any{"type": "array", "items": trade},
			"fees":   map[string]any{"type": "array", "items": fee},
		},
		"required": []string{"trades", "fees"},
	}
}

func indentedSchemaJSON() string {
	b, _ := json.MarshalIndent(ExtractionJSONSchema(), "", "  ")
	return string(b)
}

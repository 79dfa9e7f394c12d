package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mvbarbosa/pdfdigest/internal/common"
	"github.com/mvbarbosa/pdfdigest/internal/entity"
)

// ValidateAgainstSchema validates "data" against "schemaMap".
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// CheckShape is the shallow mid-retry probe: the document must be an
// object carrying "trades" and "fees" arrays. It returns both lengths so
// the orchestrator can apply its emptiness rule without a full decode.
func CheckShape(doc []byte) (trades, fees int, err error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return 0, 0, common.NewSchemaError(-1, "", fmt.Sprintf("result is not a JSON object: %v", err))
	}

	count := func(key string) (int, error) {
		raw, ok := top[key]
		if !ok {
			return 0, common.NewSchemaError(-1, key, "required key missing")
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return 0, common.NewSchemaError(-1, key, "must be an array")
		}
		return len(items), nil
	}

	if trades, err = count("trades"); err != nil {
		return 0, 0, err
	}
	if fees, err = count("fees"); err != nil {
		return 0, 0, err
	}
	return trades, fees, nil
}

var requiredTradeFields = []string{
	"orderNumber", "tradeDate", "operationType", "marketType",
	"market", "ticker", "quantity", "price", "totalValue",
}

// ValidateExtraction enforces the full trade/fee contract and decodes the
// document into the typed result. Validation is all-or-nothing: the first
// violation aborts with a SchemaError naming the offending record and
// field. Per-record rules run before the schema backstop so that the
// error pinpoints an index instead of a JSON pointer.
func ValidateExtraction(doc []byte) (*entity.ExtractionResult, error) {
	if _, _, err := CheckShape(doc); err != nil {
		return nil, err
	}

	var shell struct {
		Trades []map[string]any `json:"trades"`
		Fees   []map[string]any `json:"fees"`
	}
	if err := json.Unmarshal(doc, &shell); err != nil {
		return nil, common.NewSchemaError(-1, "", fmt.Sprintf("decode result: %v", err))
	}

	for i, trade := range shell.Trades {
		if err := validateTrade(trade, i); err != nil {
			return nil, err
		}
	}
	for i, fee := range shell.Fees {
		if err := validateFee(fee, i); err != nil {
			return nil, err
		}
	}

	if err := ValidateAgainstSchema(ExtractionJSONSchema(), doc); err != nil {
		return nil, common.NewSchemaError(-1, "", err.Error())
	}

	var out entity.ExtractionResult
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, common.NewSchemaError(-1, "", fmt.Sprintf("decode result: %v", err))
	}
	if out.Trades == nil {
		out.Trades = []entity.Trade{}
	}
	if out.Fees == nil {
		out.Fees = []entity.Fee{}
	}
	return &out, nil
}

func validateTrade(trade map[string]any, index int) error {
	for _, field := range requiredTradeFields {
		if _, ok := trade[field]; !ok {
			return common.NewSchemaError(index, field, "required field missing")
		}
	}

	op, _ := trade["operationType"].(string)
	if op != string(entity.OperationBuy) && op != string(entity.OperationSell) {
		return common.NewSchemaError(index, "operationType", "must be 'C' or 'V'")
	}

	market, _ := trade["market"].(string)
	if market != string(entity.MarketBovespa) && market != string(entity.MarketBMF) {
		return common.NewSchemaError(index, "market", "must be 'BOVESPA' or 'BMF'")
	}

	qty, ok := trade["quantity"].(float64)
	if !ok || qty != math.Trunc(qty) || qty <= 0 {
		return common.NewSchemaError(index, "quantity", "must be a positive integer")
	}

	price, ok := trade["price"].(float64)
	if !ok || price <= 0 {
		return common.NewSchemaError(index, "price", "must be a positive number")
	}

	total, ok := trade["totalValue"].(float64)
	if !ok || total <= 0 {
		return common.NewSchemaError(index, "totalValue", "must be a positive number")
	}

	return nil
}

func validateFee(fee map[string]any, index int) error {
	if _, ok := fee["orderNumber"]; !ok {
		return common.NewSchemaError(index, "orderNumber", "required field missing")
	}
	total, ok := fee["totalFees"].(float64)
	if !ok {
		return common.NewSchemaError(index, "totalFees", "required field missing or not a number")
	}
	if total < 0 {
		return common.NewSchemaError(index, "totalFees", "must be non-negative")
	}
	return nil
}

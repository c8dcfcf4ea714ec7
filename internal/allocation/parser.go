package allocation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// bucketCount is the number of asset buckets in the output contract.
const bucketCount = 5

// fields holds a parsed allocation in fixed bucket order before validation.
type fields struct {
	Defense   float64
	Gold      float64
	ESG       float64
	Crypto    float64
	Cash      float64
	Reasoning string
}

func (f fields) values() [bucketCount]float64 {
	return [bucketCount]float64{f.Defense, f.Gold, f.ESG, f.Crypto, f.Cash}
}

func (f *fields) setValues(v [bucketCount]float64) {
	f.Defense, f.Gold, f.ESG, f.Crypto, f.Cash = v[0], v[1], v[2], v[3], v[4]
}

// ResponseParser extracts the five percentage fields and the rationale from a
// raw completion. Each strategy also declares the output format it instructs
// the model to produce, so strategy and parse rules can never drift apart.
type ResponseParser interface {
	// Instructions returns the response-format section of the prompt.
	Instructions() string
	// Parse extracts the allocation fields from the raw response.
	Parse(raw string) (fields, error)
}

// NewParser returns the parser for the configured strategy.
func NewParser(strategy string) (ResponseParser, error) {
	switch strategy {
	case "json":
		return jsonParser{}, nil
	case "marker":
		return markerParser{}, nil
	default:
		return nil, fmt.Errorf("unknown parser strategy %q", strategy)
	}
}

// jsonParser expects the response to be a single well-formed JSON object.
type jsonParser struct{}

func (jsonParser) Instructions() string {
	return `Output ONLY in JSON format. Ensure all percentage values sum to 100 or very close (99-101 due to rounding):
{"defense": 0, "gold": 0, "esg": 0, "crypto": 0, "cash": 0, "reasoning": "A concise explanation for the allocation, max 150 chars"}`
}

var jsonFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*({.+})\\s*```")

func (jsonParser) Parse(raw string) (fields, error) {
	jsonStr := raw
	if matches := jsonFenceRe.FindStringSubmatch(raw); len(matches) > 1 {
		jsonStr = matches[1]
	}

	var parsed struct {
		Defense   *float64 `json:"defense"`
		Gold      *float64 `json:"gold"`
		ESG       *float64 `json:"esg"`
		Crypto    *float64 `json:"crypto"`
		Cash      *float64 `json:"cash"`
		Reasoning string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return fields{}, fmt.Errorf("decode allocation JSON: %w", err)
	}

	for name, v := range map[string]*float64{
		"defense": parsed.Defense, "gold": parsed.Gold, "esg": parsed.ESG,
		"crypto": parsed.Crypto, "cash": parsed.Cash,
	} {
		if v == nil {
			return fields{}, fmt.Errorf("missing %q field in allocation JSON", name)
		}
	}

	return fields{
		Defense:   *parsed.Defense,
		Gold:      *parsed.Gold,
		ESG:       *parsed.ESG,
		Crypto:    *parsed.Crypto,
		Cash:      *parsed.Cash,
		Reasoning: strings.TrimSpace(parsed.Reasoning),
	}, nil
}

// markerParser extracts numbers adjacent to fixed markers in free text.
type markerParser struct{}

func (markerParser) Instructions() string {
	return `Output the allocation in EXACTLY this format, one line per bucket, each number immediately before its marker:
Defense stocks: 0 __DEFENSE__%
Gold: 0 __GOLD__%
ESG assets: 0 __ESG__%
Cryptocurrency: 0 __CRYPTO__%
Cash: 0 __CASH__%
__THESIS__ A concise explanation for the allocation, max 150 chars.
Ensure all percentage values sum to 100 or very close (99-101 due to rounding).`
}

var markerRes = map[string]*regexp.Regexp{
	"__DEFENSE__": regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*__DEFENSE__`),
	"__GOLD__":    regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*__GOLD__`),
	"__ESG__":     regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*__ESG__`),
	"__CRYPTO__":  regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*__CRYPTO__`),
	"__CASH__":    regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*__CASH__`),
}

var thesisRe = regexp.MustCompile(`(?s)__THESIS__\s*(.+)$`)

func (markerParser) Parse(raw string) (fields, error) {
	extract := func(marker string) (float64, error) {
		matches := markerRes[marker].FindStringSubmatch(raw)
		if len(matches) < 2 {
			return 0, fmt.Errorf("marker %s not found in response", marker)
		}
		v, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			return 0, fmt.Errorf("number before %s: %w", marker, err)
		}
		return v, nil
	}

	var f fields
	var err error
	if f.Defense, err = extract("__DEFENSE__"); err != nil {
		return fields{}, err
	}
	if f.Gold, err = extract("__GOLD__"); err != nil {
		return fields{}, err
	}
	if f.ESG, err = extract("__ESG__"); err != nil {
		return fields{}, err
	}
	if f.Crypto, err = extract("__CRYPTO__"); err != nil {
		return fields{}, err
	}
	if f.Cash, err = extract("__CASH__"); err != nil {
		return fields{}, err
	}

	if matches := thesisRe.FindStringSubmatch(raw); len(matches) > 1 {
		f.Reasoning = strings.TrimSpace(matches[1])
	}

	return f, nil
}

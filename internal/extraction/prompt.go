package extraction

import (
	"encoding/json"
	"fmt"
)

const propertyResponseSchema = `{
  "id": "string, optional; reuse only when the input explicitly names an existing catalog id",
  "basic_info": {
    "title": "string, the commercial name of the development",
    "developer": "string, the construction company",
    "delivery_date": "string, ISO date (YYYY-MM-DD or YYYY-MM)"
  },
  "location": {
    "neighborhood": "one of: CaboBranco, Tambau",
    "position_to_sea": "one of: beira_mar, quadra_mar, miolo",
    "distance_to_beach_meters": "non-negative number",
    "coordinates": {"lat": "number", "lng": "number"}
  },
  "features": {
    "area_m2": "positive number, private area in square meters",
    "sun_orientation": "one of: nascente, nascente_sul, sul, poente",
    "bedrooms": "non-negative integer"
  },
  "ai_context": {
    "target_persona": ["strings in Brazilian Portuguese"],
    "investment_roi_estimated_percent": "number",
    "local_advantage": "string in Brazilian Portuguese"
  },
  "snapshot": {
    "timestamp": "string, ISO date-time of the observation; omit if unknown",
    "price_brl": "non-negative number, asking price in BRL",
    "price_per_m2_brl": "non-negative number",
    "status": "one of: na_planta, em_construcao, pronto",
    "source": "string, provenance of the observation; omit if unknown"
  }
}`

const promptTemplate = `You are a real-estate market analyst for the beachfront market of Joao Pessoa,
Paraiba, Brazil (neighborhoods Cabo Branco and Tambau). Extract a structured
property record from the unstructured listing data below.

Output ONLY a single valid JSON object that follows this schema exactly. Do not
include any preamble, explanation, markdown formatting, or text outside the
object. Start with { and end with }.

Schema:
%s

Rules:
- Enum fields must use exactly one of the listed values.
- "target_persona" and "local_advantage" must be written only in Brazilian Portuguese.
- Derive "price_per_m2_brl" from the price and area when it is not stated.
- Omit optional fields you cannot determine instead of inventing values.

Listing data:
%s`

// BuildPrompt produces the extraction instruction for one raw payload.
// The payload must be a plain string or a JSON object; anything else is
// rejected with ErrInvalidPayload before any model call happens.
func BuildPrompt(payload any) (string, error) {
	var data string
	switch v := payload.(type) {
	case string:
		if v == "" {
			return "", ErrInvalidPayload
		}
		data = v
	case map[string]any:
		encoded, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		data = string(encoded)
	default:
		return "", ErrInvalidPayload
	}

	return fmt.Sprintf(promptTemplate, propertyResponseSchema, data), nil
}

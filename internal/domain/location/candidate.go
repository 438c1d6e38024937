package location

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanqian/seven-day-fit/internal/infra/llm/chatgpt"
)

// llmReply is the structured output requested from the model.
type llmReply struct {
	Candidate *llmCandidate `json:"candidate"`
	Advice    *string       `json:"advice"`
}

type llmCandidate struct {
	Lat        float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lon        float64  `json:"lon" validate:"gte=-180,lte=180"`
	Name       string   `json:"name" validate:"required"`
	Admin1     *string  `json:"admin1"`
	Country    *string  `json:"country"`
	PlaceType  *string  `json:"placeType" validate:"omitempty,oneof=neighborhood city region country"`
	Confidence *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Rationale  *string  `json:"rationale"`
}

func candidateResponseFormat() *chatgpt.ResponseFormat {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	return &chatgpt.ResponseFormat{
		Type: "json_schema",
		JSONSchema: &chatgpt.JSONSchema{
			Name:   "candidate",
			Strict: true,
			Schema: map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"candidate", "advice"},
				"properties": map[string]any{
					"candidate": map[string]any{
						"type":                 []string{"object", "null"},
						"additionalProperties": false,
						"required":             []string{"lat", "lon", "name", "admin1", "country", "placeType", "confidence", "rationale"},
						"properties": map[string]any{
							"lat":     map[string]any{"type": "number"},
							"lon":     map[string]any{"type": "number"},
							"name":    map[string]any{"type": "string"},
							"admin1":  nullableString,
							"country": nullableString,
							"placeType": map[string]any{
								"type": []string{"string", "null"},
								"enum": []any{"neighborhood", "city", "region", "country", nil},
							},
							"confidence": map[string]any{"type": []string{"number", "null"}, "minimum": 0, "maximum": 1},
							"rationale":  nullableString,
						},
					},
					"advice": nullableString,
				},
			},
		},
	}
}

// parseReply decodes and validates model output. Code fences are tolerated.
func parseReply(raw string, validate *validator.Validate) (llmReply, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))
	if sanitized == "" {
		return llmReply{}, errors.New("empty reply")
	}

	var reply llmReply
	if err := json.Unmarshal([]byte(sanitized), &reply); err != nil {
		return llmReply{}, err
	}
	if reply.Candidate != nil {
		if err := validate.Struct(reply.Candidate); err != nil {
			return llmReply{}, err
		}
	}
	return reply, nil
}

// displayName joins the non-empty name components with ", ".
func displayName(c *llmCandidate) string {
	parts := make([]string, 0, 3)
	for _, v := range []*string{&c.Name, c.Admin1, c.Country} {
		if v == nil {
			continue
		}
		if clean := strings.TrimSpace(*v); clean != "" {
			parts = append(parts, clean)
		}
	}
	return strings.Join(parts, ", ")
}

// sanitizePart drops blank and "null"/"undefined" placeholders and strips
// leading or trailing separators.
func sanitizePart(v *string) *string {
	if v == nil {
		return nil
	}
	clean := strings.TrimSpace(*v)
	if clean == "" {
		return nil
	}
	switch strings.ToLower(clean) {
	case "null", "undefined":
		return nil
	}
	clean = strings.Trim(clean, ",; \t\r\n")
	if clean == "" {
		return nil
	}
	return &clean
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	clean := strings.TrimSpace(*v)
	if clean == "" {
		return nil
	}
	return &clean
}

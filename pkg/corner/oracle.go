// Package corner decides where on a product photograph the opaque corner
// mark should be placed. The decision is delegated to a vision model; any
// failure to obtain a usable answer resolves to the default corner, so a
// selection never fails.
package corner

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/menta2k/logo-stamper/pkg/client"
	"github.com/menta2k/logo-stamper/pkg/types"
)

// SelectionPrompt asks the model to judge the two top corners of the image.
const SelectionPrompt = `You are a product photography layout assistant.

Look at this product image and decide which TOP corner has more open,
uncluttered space where a small logo could be placed WITHOUT covering the
product subject.

Return JSON only:
{"corner": "top_left"}
or
{"corner": "top_right"}

HARD RULES
- "corner" must be exactly "top_left" or "top_right". No other value.
- Prefer the corner with more empty background and less of the subject.
- If both corners look equally free, answer "top_right".
- JSON only. No markdown, no code fences, no comments.`

// cornerSchema constrains the reply to the two-value corner enum.
var cornerSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "corner": {
      "type": "string",
      "enum": ["top_left", "top_right"]
    }
  },
  "required": ["corner"]
}`)

// Selector chooses a corner for a single product image from its raw encoded
// bytes. Implementations never fail; they resolve to a default instead.
type Selector interface {
	SelectCorner(ctx context.Context, imageBytes []byte) types.Corner
}

// Oracle selects a corner by asking a vision model. It is stateless: every
// image is judged independently, with no memory across calls.
type Oracle struct {
	client client.VisionClient
	model  string
}

// NewOracle creates an Oracle backed by the given vision client and model.
func NewOracle(visionClient client.VisionClient, model string) *Oracle {
	return &Oracle{client: visionClient, model: model}
}

// SelectCorner asks the vision model which top corner is more open. Any
// transport error, malformed reply, or out-of-enum value falls back to the
// default corner; this method never reports an error.
func (o *Oracle) SelectCorner(ctx context.Context, imageBytes []byte) types.Corner {
	if o.client == nil || len(imageBytes) == 0 {
		return types.DefaultCorner
	}

	imgB64 := base64.StdEncoding.EncodeToString(imageBytes)
	raw, err := o.client.ConstrainedQuery(ctx, o.model, SelectionPrompt, imgB64, cornerSchema)
	if err != nil {
		return types.DefaultCorner
	}

	if c, ok := parseCorner(raw); ok {
		return c
	}
	return types.DefaultCorner
}

// parseCorner extracts the corner value from the model reply. Only the two
// top corners are accepted.
func parseCorner(raw string) (types.Corner, bool) {
	raw = sanitizeModelJSON(raw)

	var reply struct {
		Corner string `json:"corner"`
	}
	if err := json.Unmarshal([]byte(raw), &reply); err == nil {
		return topCorner(reply.Corner)
	}

	// Some models answer with a bare string despite the schema
	return topCorner(strings.Trim(raw, `"`))
}

func topCorner(value string) (types.Corner, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, "-", "_")
	switch types.Corner(value) {
	case types.CornerTopLeft:
		return types.CornerTopLeft, true
	case types.CornerTopRight:
		return types.CornerTopRight, true
	}
	return "", false
}

// sanitizeModelJSON removes code fences and keeps the outermost JSON object
// from a model reply.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

// Fixed is a Selector that always answers the same corner. It is the
// explicit policy for running a batch without a vision backend.
type Fixed types.Corner

// NewFixed returns a Fixed selector for the given corner. Unknown values are
// clamped to the default corner.
func NewFixed(c types.Corner) Fixed {
	if !c.Valid() {
		return Fixed(types.DefaultCorner)
	}
	return Fixed(c)
}

// SelectCorner returns the fixed corner regardless of the image.
func (f Fixed) SelectCorner(_ context.Context, _ []byte) types.Corner {
	return types.Corner(f)
}

package corner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/menta2k/logo-stamper/pkg/types"
)

// fakeVisionClient is a deterministic VisionClient for tests
type fakeVisionClient struct {
	reply  string
	err    error
	calls  int
	prompt string
	format json.RawMessage
}

func (f *fakeVisionClient) SimpleQuery(_ context.Context, _, prompt, _ string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func (f *fakeVisionClient) ConstrainedQuery(_ context.Context, _, prompt, _ string, format json.RawMessage) (string, error) {
	f.calls++
	f.prompt = prompt
	f.format = format
	return f.reply, f.err
}

var testImage = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}

func TestSelectCornerValidReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  types.Corner
	}{
		{"top left object", `{"corner":"top_left"}`, types.CornerTopLeft},
		{"top right object", `{"corner":"top_right"}`, types.CornerTopRight},
		{"fenced json", "```json\n{\"corner\":\"top_left\"}\n```", types.CornerTopLeft},
		{"bare string", `"top_left"`, types.CornerTopLeft},
		{"hyphenated", `{"corner":"top-right"}`, types.CornerTopRight},
	}

	for _, tt := range tests {
		fake := &fakeVisionClient{reply: tt.reply}
		oracle := NewOracle(fake, "test-model")

		got := oracle.SelectCorner(context.Background(), testImage)
		if got != tt.want {
			t.Errorf("%s: SelectCorner = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestSelectCornerFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeVisionClient
	}{
		{"transport error", &fakeVisionClient{err: errors.New("connection refused")}},
		{"garbage reply", &fakeVisionClient{reply: "I think the left side looks nice"}},
		{"empty reply", &fakeVisionClient{reply: ""}},
		{"outside enum", &fakeVisionClient{reply: `{"corner":"bottom_left"}`}},
		{"unknown value", &fakeVisionClient{reply: `{"corner":"middle"}`}},
		{"wrong key", &fakeVisionClient{reply: `{"position":"top_left"}`}},
	}

	for _, tt := range tests {
		oracle := NewOracle(tt.fake, "test-model")
		got := oracle.SelectCorner(context.Background(), testImage)
		if got != types.DefaultCorner {
			t.Errorf("%s: SelectCorner = %s, want default %s", tt.name, got, types.DefaultCorner)
		}
	}
}

func TestSelectCornerNilClient(t *testing.T) {
	oracle := NewOracle(nil, "test-model")
	if got := oracle.SelectCorner(context.Background(), testImage); got != types.DefaultCorner {
		t.Errorf("nil client: SelectCorner = %s, want %s", got, types.DefaultCorner)
	}
}

func TestSelectCornerEmptyImage(t *testing.T) {
	fake := &fakeVisionClient{reply: `{"corner":"top_left"}`}
	oracle := NewOracle(fake, "test-model")

	if got := oracle.SelectCorner(context.Background(), nil); got != types.DefaultCorner {
		t.Errorf("empty image: SelectCorner = %s, want %s", got, types.DefaultCorner)
	}
	if fake.calls != 0 {
		t.Errorf("expected no vision call for empty image, got %d", fake.calls)
	}
}

func TestSelectCornerSendsConstraint(t *testing.T) {
	fake := &fakeVisionClient{reply: `{"corner":"top_left"}`}
	oracle := NewOracle(fake, "test-model")
	oracle.SelectCorner(context.Background(), testImage)

	if fake.calls != 1 {
		t.Fatalf("expected 1 vision call, got %d", fake.calls)
	}
	if len(fake.format) == 0 {
		t.Fatal("expected a response-shape constraint to be sent")
	}

	var schema struct {
		Properties struct {
			Corner struct {
				Enum []string `json:"enum"`
			} `json:"corner"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(fake.format, &schema); err != nil {
		t.Fatalf("constraint is not valid JSON: %v", err)
	}
	if len(schema.Properties.Corner.Enum) != 2 {
		t.Errorf("constraint enum has %d values, want exactly 2", len(schema.Properties.Corner.Enum))
	}
}

func TestFixedSelector(t *testing.T) {
	fixed := NewFixed(types.CornerBottomLeft)
	if got := fixed.SelectCorner(context.Background(), testImage); got != types.CornerBottomLeft {
		t.Errorf("Fixed = %s, want %s", got, types.CornerBottomLeft)
	}
}

func TestFixedSelectorClampsUnknown(t *testing.T) {
	fixed := NewFixed(types.Corner("nowhere"))
	if got := fixed.SelectCorner(context.Background(), testImage); got != types.DefaultCorner {
		t.Errorf("Fixed with unknown corner = %s, want %s", got, types.DefaultCorner)
	}
}

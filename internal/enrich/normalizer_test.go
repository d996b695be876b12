package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

type fakeAI struct {
	result model.NormalizedName
	err    error
	calls  int
}

func (f *fakeAI) NormalizeName(ctx context.Context, rawName string) (model.NormalizedName, error) {
	f.calls++
	return f.result, f.err
}

func TestDeterministicParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		brand   string
		model   string
		size    string
		variant string
	}{
		{
			name:    "nike air force with sz",
			input:   "Nike Air Force 1 White sz 10",
			brand:   "Nike",
			model:   "Air Force 1",
			size:    "10",
			variant: "White",
		},
		{
			name:  "size keyword with half size",
			input: "adidas Samba size 9.5",
			brand: "Adidas",
			model: "Samba",
			size:  "9.5",
		},
		{
			name:    "new balance two word brand",
			input:   "New Balance 550 Cream 11us",
			brand:   "New Balance",
			model:   "550",
			size:    "11",
			variant: "Cream",
		},
		{
			name:  "eu size",
			input: "Puma Suede Classic EU 42",
			brand: "Puma",
			model: "Suede Classic",
			size:  "42",
		},
		{
			name:    "unknown brand keeps variant and no brand",
			input:   "Mystery Runner Black size 8",
			variant: "Black",
			size:    "8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deterministic(tt.input)
			assert.Equal(t, tt.brand, got.Brand)
			assert.Equal(t, tt.model, got.Model)
			assert.Equal(t, tt.size, got.Size)
			assert.Equal(t, tt.variant, got.Variant)
			assert.NotEmpty(t, got.SearchQuery)
		})
	}
}

func TestDeterministicIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"!!!",
		"sz",
		"123456789012345678901234567890",
		"Nike",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { Deterministic(input) }, "input %q", input)
	}
}

func TestDeterministicEmptyInput(t *testing.T) {
	got := Deterministic("")
	assert.Equal(t, model.NormalizedName{}, got)
}

func TestNormalizeWithoutAI(t *testing.T) {
	n := NewNormalizer(logger.NewNop(), nil)

	got := n.Normalize(context.Background(), "Nike Dunk Low Panda sz 9")
	assert.Equal(t, "Nike", got.Brand)
	assert.Equal(t, "Dunk Low", got.Model)
	assert.Equal(t, "9", got.Size)
}

func TestNormalizeAIFieldsTakePrecedence(t *testing.T) {
	ai := &fakeAI{result: model.NormalizedName{
		Brand: "Nike",
		Model: "Air Force 1 '07",
		// Size intentionally left empty: deterministic value must fill it.
	}}
	n := NewNormalizer(logger.NewNop(), ai)

	got := n.Normalize(context.Background(), "nike af1 white sz 10")
	assert.Equal(t, "Nike", got.Brand)
	assert.Equal(t, "Air Force 1 '07", got.Model)
	assert.Equal(t, "10", got.Size)
	assert.Equal(t, 1, ai.calls)
}

func TestNormalizeAIEchoIsIgnored(t *testing.T) {
	// An AI field that merely repeats the raw input carries no information.
	raw := "Nike Air Force 1 White sz 10"
	ai := &fakeAI{result: model.NormalizedName{Brand: raw}}
	n := NewNormalizer(logger.NewNop(), ai)

	got := n.Normalize(context.Background(), raw)
	assert.Equal(t, "Nike", got.Brand)
}

func TestNormalizeAIFailureFallsBack(t *testing.T) {
	ai := &fakeAI{err: errors.New("model loading")}
	n := NewNormalizer(logger.NewNop(), ai)

	got := n.Normalize(context.Background(), "Nike Air Max 90 sz 11")
	assert.Equal(t, "Nike", got.Brand)
	assert.Equal(t, "Air Max 90", got.Model)
	assert.Equal(t, "11", got.Size)
}

func TestNormalizeNeverPanics(t *testing.T) {
	ai := &fakeAI{err: errors.New("boom")}
	n := NewNormalizer(logger.NewNop(), ai)

	for _, input := range []string{"", "   ", "weird \x00 bytes"} {
		assert.NotPanics(t, func() { n.Normalize(context.Background(), input) })
	}
}

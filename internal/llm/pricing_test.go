package llm

import "testing"

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		input float64
		found bool
	}{
		{"gemini-2.5-flash", 0.3, true},
		{"google/gemini-2.5-flash", 0.3, true},
		{"google/gemini-2.0-flash-exp", 0.1, true},
		{"gemini-2.5-flash-lite", 0.1, true},
		{"gpt-4o-mini-2024-07-18", 0.15, true},
		{"claude-haiku-4-5-20251001", 1, true},
		{"mock", 0, false},
		{"gemini", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if !tt.found {
				if c != nil {
					t.Fatalf("expected no price, got %+v", c)
				}
				return
			}
			if c == nil {
				t.Fatal("expected a price")
			}
			if c.InputPerMTok != tt.input {
				t.Errorf("input price = %v, want %v", c.InputPerMTok, tt.input)
			}
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 4}
	if got := c.Cost(500_000, 250_000); got != 1.5 {
		t.Errorf("Cost = %v, want 1.5", got)
	}
}

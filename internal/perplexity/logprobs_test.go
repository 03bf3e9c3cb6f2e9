// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package perplexity

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptLogprobs(t *testing.T) {
	tests := []struct {
		name   string
		res    openai.LogprobResult
		prompt string
		want   []float64
	}{
		{
			name: "offsets separate prompt from generated tokens",
			res: openai.LogprobResult{
				Tokens:        []string{"<s>", "Hi", " there", "!"},
				TokenLogprobs: []float32{0, -1, -2, -0.5},
				TextOffset:    []int{0, 3, 5, 11},
			},
			prompt: "<s>Hi there",
			want:   []float64{-1, -2},
		},
		{
			name: "offsets count characters not bytes",
			res: openai.LogprobResult{
				Tokens:        []string{"<s>", "βeta", " x", "!"},
				TokenLogprobs: []float32{0, -1, -2, -0.5},
				TextOffset:    []int{0, 3, 7, 9},
			},
			prompt: "<s>βeta x",
			want:   []float64{-1, -2},
		},
		{
			name: "without offsets the last token is generated",
			res: openai.LogprobResult{
				Tokens:        []string{"a", "b", "c", "!"},
				TokenLogprobs: []float32{0, -1, -2, -0.5},
			},
			prompt: "abc",
			want:   []float64{-1, -2},
		},
		{
			name: "single prompt token",
			res: openai.LogprobResult{
				Tokens:        []string{"<s>", "!"},
				TokenLogprobs: []float32{0, -0.5},
				TextOffset:    []int{0, 3},
			},
			prompt: "<s>",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := promptLogprobs(tt.res, tt.prompt)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.InDeltaSlice(t, tt.want, got, 1e-6)
		})
	}
}

func TestPromptLogprobs_NoLogprobs(t *testing.T) {
	_, err := promptLogprobs(openai.LogprobResult{}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "echo with logprobs")
}

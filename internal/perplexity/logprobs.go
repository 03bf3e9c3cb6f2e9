// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package perplexity

import (
	"fmt"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

// promptLogprobs returns the conditional log-probabilities of the prompt
// tokens in an echoed completion, excluding the first prompt token.
//
// Prompt tokens are the ones whose text offset falls inside the prompt
// (offsets count characters). Without offsets, every token but the final
// generated one is taken as prompt.
func promptLogprobs(res openai.LogprobResult, prompt string) ([]float64, error) {
	n := len(res.TokenLogprobs)
	if n == 0 {
		return nil, fmt.Errorf("response has no token logprobs; the server must support echo with logprobs")
	}

	promptTokens := n - 1
	if len(res.TextOffset) == n {
		promptLen := utf8.RuneCountInString(prompt)
		promptTokens = 0
		for _, off := range res.TextOffset {
			if off >= promptLen {
				break
			}
			promptTokens++
		}
	}
	if promptTokens <= 1 {
		return nil, nil
	}

	out := make([]float64, 0, promptTokens-1)
	for _, v := range res.TokenLogprobs[1:promptTokens] {
		out = append(out, float64(v))
	}
	return out, nil
}

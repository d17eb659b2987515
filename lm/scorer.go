// Package lm scores token sequences against a built CDAWG: given the
// counts TransitionAndCount/GetNextTokens expose, it estimates a
// continuation distribution using modified Kneser-Ney style discounting,
// and separately reports the induction signal used to detect in-context
// copying (the entropy/length of the longest suffix match itself, with no
// smoothing).
package lm

import (
	"fmt"
	"math"

	"github.com/lvlath/cdawg/cdawg"
)

// Queryable is the subset of Cdawg/ArrayCdawg's query surface a Scorer
// needs: both satisfy it already, so a Scorer works unchanged whether the
// model is still under construction or has been frozen.
type Queryable[S any] interface {
	AtSource() S
	TransitionAndCount(state S, token uint16) (S, uint64, error)
	GetNextTokens(state S) ([]cdawg.NextToken, error)
}

// discount is the absolute discount subtracted from every observed count
// before redistributing probability mass to the backoff distribution, the
// core move of Kneser-Ney smoothing.
const discount = 0.75

// KneserNey scores continuations against a built automaton with absolute
// discounting, mixing the discounted estimate at the current context with
// the constant unigramFallback floor, rather than returning raw
// maximum-likelihood counts (which assign zero probability to anything
// unseen at the current context length). It does not back off to
// shorter contexts.
type KneserNey[S any] struct {
	model Queryable[S]
}

// NewKneserNey wraps model for Kneser-Ney-smoothed scoring.
func NewKneserNey[S any](model Queryable[S]) *KneserNey[S] {
	return &KneserNey[S]{model: model}
}

// Score returns P(next | state) under discounted backoff: the discounted
// maximum-likelihood estimate at the current context, plus the share of
// the probability mass absolute discounting freed up times the
// unigramFallback floor. When the current context has no continuations
// (or their counts sum to zero) it returns the floor alone; it does not
// recurse on a shorter context.
func (k *KneserNey[S]) Score(state S, next uint16) (float64, error) {
	continuations, err := k.model.GetNextTokens(state)
	if err != nil {
		return 0, fmt.Errorf("lm.KneserNey.Score: %w", err)
	}
	if len(continuations) == 0 {
		return k.unigramFallback(next), nil
	}

	var total uint64
	var matchCount uint64
	distinct := len(continuations)
	for _, c := range continuations {
		total += c.Count
		if c.Token == next {
			matchCount = c.Count
		}
	}
	if total == 0 {
		return k.unigramFallback(next), nil
	}

	lambda := discount * float64(distinct) / float64(total)
	backoff := k.unigramFallback(next)

	if matchCount == 0 {
		return lambda * backoff, nil
	}
	discounted := math.Max(float64(matchCount)-discount, 0)
	return discounted/float64(total) + lambda*backoff, nil
}

// unigramFallback is the smoothing floor once context runs out entirely:
// a uniform distribution, since a Queryable alone (without a side channel
// for global unigram counts) can't distinguish token frequencies at the
// very shortest context.
func (k *KneserNey[S]) unigramFallback(uint16) float64 {
	return 1e-6
}

// InductionScore reports how many leading tokens of tokens the model
// walks through from the empty context before TransitionAndCount first
// fails, and the entropy of the continuation distribution at the state
// reached after the last of them — the copy-detection signal:
// a sequence repeating a long span seen earlier in the index walks deep
// without ever needing suffix-link backoff, and its continuation entropy
// collapses to near zero at the repeated span.
type InductionScore struct {
	MatchedLength int
	Entropy       float64
}

// Induction walks tokens from the source, reporting how many tokens it
// walked and the entropy of its final continuation distribution.
func Induction[S any](model Queryable[S], getEntropy func(S) (float64, error), tokens []uint16) (InductionScore, error) {
	state := model.AtSource()
	matched := 0
	for _, tok := range tokens {
		next, _, err := model.TransitionAndCount(state, tok)
		if err != nil {
			break
		}
		state = next
		matched++
	}
	if matched == 0 {
		return InductionScore{}, nil
	}
	h, err := getEntropy(state)
	if err != nil {
		return InductionScore{MatchedLength: matched}, nil
	}
	return InductionScore{MatchedLength: matched, Entropy: h}, nil
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracy(t *testing.T) {
	t.Run("identical texts score 100", func(t *testing.T) {
		assert.Equal(t, float64(100), Accuracy("hello world", "hello world"))
	})

	t.Run("empty original scores 0", func(t *testing.T) {
		assert.Equal(t, float64(0), Accuracy("", "anything"))
	})

	t.Run("empty typed scores 0", func(t *testing.T) {
		assert.Equal(t, float64(0), Accuracy("hello", ""))
	})

	t.Run("denominator is always the original length", func(t *testing.T) {
		// 3 of 6 positions correct
		assert.Equal(t, float64(50), Accuracy("abcdef", "abcxxx"))
		// typing past the end cannot raise the score
		assert.Equal(t, float64(50), Accuracy("abcdef", "abcxxxzzzz"))
		// a shorter correct prefix is scored against the full original
		assert.Equal(t, float64(50), Accuracy("abcdef", "abc"))
	})

	t.Run("stays within 0 to 100", func(t *testing.T) {
		cases := [][2]string{
			{"abc", "abc"},
			{"abc", "abcdefgh"},
			{"abc", "x"},
			{"some longer text", "some"},
		}
		for _, c := range cases {
			got := Accuracy(c[0], c[1])
			assert.GreaterOrEqual(t, got, float64(0), "accuracy(%q, %q)", c[0], c[1])
			assert.LessOrEqual(t, got, float64(100), "accuracy(%q, %q)", c[0], c[1])
		}
	})

	t.Run("compares runes not bytes", func(t *testing.T) {
		assert.Equal(t, float64(100), Accuracy("héllo", "héllo"))
		assert.Equal(t, float64(80), Accuracy("héllo", "hxllo"))
	})
}

func TestWPM(t *testing.T) {
	t.Run("zero typed is zero", func(t *testing.T) {
		assert.Equal(t, float64(0), WPM(0, 60))
	})

	t.Run("zero elapsed is zero", func(t *testing.T) {
		assert.Equal(t, float64(0), WPM(500, 0))
	})

	t.Run("300 characters in one minute is 60 wpm", func(t *testing.T) {
		assert.Equal(t, float64(60), WPM(300, 60))
	})

	t.Run("no rounding inside the engine", func(t *testing.T) {
		assert.InDelta(t, 12.4, WPM(31, 30), 1e-9)
	})
}

func TestErrorCount(t *testing.T) {
	t.Run("no errors for identical texts", func(t *testing.T) {
		assert.Equal(t, 0, ErrorCount("hello", "hello"))
	})

	t.Run("counts aligned mismatches", func(t *testing.T) {
		assert.Equal(t, 2, ErrorCount("abcdef", "axcxef"))
	})

	t.Run("surplus characters count as errors", func(t *testing.T) {
		assert.Equal(t, 3, ErrorCount("abc", "abcxyz"))
		assert.Equal(t, 4, ErrorCount("abc", "xbcxyz"))
	})

	t.Run("short typed text only counts mismatches", func(t *testing.T) {
		assert.Equal(t, 0, ErrorCount("abcdef", "abc"))
	})
}

func TestComputeResult(t *testing.T) {
	result := ComputeResult("abcdef", "abcxxx", 30)
	assert.Equal(t, float64(50), result.Accuracy)
	assert.InDelta(t, 2.4, result.WPM, 1e-9) // 6/5 words over half a minute
	assert.Equal(t, 3, result.Errors)
	assert.Equal(t, float64(30), result.TimeTaken)
	assert.Equal(t, 6, result.TotalChars)
	assert.Equal(t, 3, result.CorrectChars)
}

package main

// Pure scoring functions shared by the single-player and battle paths.
// No rounding happens here; display rounding is done at the HTTP
// boundary.

// Accuracy compares typed against original position by position and
// returns the percentage of original that was typed correctly. The
// denominator is always len(original), so typing past a mismatch can
// only lower the result, never recover it.
func Accuracy(original, typed string) float64 {
	originalRunes := []rune(original)
	typedRunes := []rune(typed)
	if len(originalRunes) == 0 || len(typedRunes) == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < len(typedRunes) && i < len(originalRunes); i++ {
		if typedRunes[i] == originalRunes[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(originalRunes)) * 100
}

// WPM assumes the conventional five characters per word.
func WPM(typedLength int, elapsedSeconds float64) float64 {
	minutes := elapsedSeconds / 60
	if minutes <= 0 {
		return 0
	}
	wordsTyped := float64(typedLength) / 5
	return wordsTyped / minutes
}

// ErrorCount is the number of position-aligned mismatches plus every
// character typed past the end of the original.
func ErrorCount(original, typed string) int {
	originalRunes := []rune(original)
	typedRunes := []rune(typed)
	errors := 0
	for i := 0; i < len(typedRunes) && i < len(originalRunes); i++ {
		if typedRunes[i] != originalRunes[i] {
			errors++
		}
	}
	if len(typedRunes) > len(originalRunes) {
		errors += len(typedRunes) - len(originalRunes)
	}
	return errors
}

type TypingResult struct {
	WPM          float64 `json:"wpm"`
	Accuracy     float64 `json:"accuracy"`
	Errors       int     `json:"errors"`
	TimeTaken    float64 `json:"timeTaken"`
	TotalChars   int     `json:"totalChars"`
	CorrectChars int     `json:"correctChars"`
}

// ComputeResult scores one finished typing run.
func ComputeResult(original, typed string, timeTakenSeconds float64) TypingResult {
	originalRunes := []rune(original)
	typedRunes := []rune(typed)
	correct := 0
	for i := 0; i < len(typedRunes) && i < len(originalRunes); i++ {
		if typedRunes[i] == originalRunes[i] {
			correct++
		}
	}
	return TypingResult{
		WPM:          WPM(len(typedRunes), timeTakenSeconds),
		Accuracy:     Accuracy(original, typed),
		Errors:       ErrorCount(original, typed),
		TimeTaken:    timeTakenSeconds,
		TotalChars:   len(originalRunes),
		CorrectChars: correct,
	}
}

package util

import (
	"testing"
	"time"
)

func TestYearBounds(t *testing.T) {
	start, end := YearBounds(2024)
	if start != time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Unexpected start %s", start)
	}
	if end != time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Unexpected end %s", end)
	}
}

func TestIsValidMonth(t *testing.T) {
	for _, month := range []int{1, 6, 12} {
		if !IsValidMonth(month) {
			t.Errorf("Expected %d to be valid", month)
		}
	}
	for _, month := range []int{0, 13, -1} {
		if IsValidMonth(month) {
			t.Errorf("Expected %d to be invalid", month)
		}
	}
}

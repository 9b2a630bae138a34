package datetime

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		dateStr  string
		expected string
		wantErr  bool
	}{
		{name: "Valid date", dateStr: "2025-01-15", expected: "2025-01-15"},
		{name: "Leap day", dateStr: "2024-02-29", expected: "2024-02-29"},
		{name: "Month only", dateStr: "2025-01", wantErr: true},
		{name: "Not a leap year", dateStr: "2023-02-29", wantErr: true},
		{name: "Garbage", dateStr: "invalid-date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.dateStr)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error", tt.dateStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.dateStr, err)
			}
			if Format(result) != tt.expected {
				t.Errorf("ParseDate() = %s, expected %s", Format(result), tt.expected)
			}
		})
	}
}

func TestMustParseDatePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseDate to panic with invalid date")
		}
	}()

	MustParseDate("invalid-date")
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"Same day", MustParseDate("2024-01-01"), MustParseDate("2024-01-01"), 0},
		{"One year, leap", MustParseDate("2024-01-01"), MustParseDate("2025-01-01"), 366},
		{"One year, common", MustParseDate("2023-01-01"), MustParseDate("2024-01-01"), 365},
		{"Backwards", MustParseDate("2024-01-10"), MustParseDate("2024-01-01"), -9},
		{
			"Time of day ignored",
			time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC),
			time.Date(2024, 3, 2, 0, 15, 0, 0, time.UTC),
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := DaysBetween(tt.start, tt.end); result != tt.expected {
				t.Errorf("DaysBetween() = %d, expected %d", result, tt.expected)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		months   int
		expected string
	}{
		{"Add one month", "2025-01-15", 1, "2025-02-15"},
		{"Cross year boundary", "2025-11-30", 3, "2026-02-28"},
		{"Clamp to end of February", "2025-01-31", 1, "2025-02-28"},
		{"Clamp to leap day", "2024-01-31", 1, "2024-02-29"},
		{"Subtract months", "2025-03-31", -1, "2025-02-28"},
		{"Add multiple years", "2025-01-01", 24, "2027-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(AddMonths(MustParseDate(tt.date), tt.months))
			if result != tt.expected {
				t.Errorf("AddMonths(%s, %d) = %s, expected %s", tt.date, tt.months, result, tt.expected)
			}
		})
	}
}

package namer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"posix path", "/data/photos/trip", "_data_photos_trip"},
		{"windows path", `C:\Users\Test Dir\photos`, "C_Users_Test_Dir_photos"},
		{"spaces", "summer holiday 2023", "summer_holiday_2023"},
		{"colons stripped", "a:b:c", "abc"},
		{"empty", "", ""},
	}

	for _, tt := range tests {

		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.path))
		})
	}
}

func TestPrefix(t *testing.T) {

	ts := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)

	prefix := Prefix("/data/My Photos/trip", "trip/day 1", ts)
	assert.Equal(t, "_data_My_Photos_trip_trip_day_1_20240501123045", prefix)
}

func TestTitle(t *testing.T) {

	title, err := Title("beach", 2, 5)

	require.NoError(t, err)
	assert.Equal(t, "beach（第2个子类/共5个子类）", title)
}

func TestTitleMissingFolder(t *testing.T) {

	_, err := Title("", 1, 1)
	assert.Error(t, err)
}

package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstimateExperienceYears(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{
			name:     "单段月份区间",
			text:     "Software Engineer, Jan 2020 - Jan 2022",
			expected: 2.0,
		},
		{
			name:     "多段区间求和",
			text:     "Jan 2018 - Jan 2020 backend; Mar 2021 - Mar 2022 ML",
			expected: 3.0,
		},
		{
			name:     "纯年份区间",
			text:     "Worked at Acme 2019 - 2021",
			expected: 2.0,
		},
		{
			name:     "没有区间时默认1.0",
			text:     "Skilled in Go and Python.",
			expected: 1.0,
		},
		{
			name:     "区间倒置被忽略",
			text:     "Jan 2022 - Jan 2020",
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EstimateExperienceYearsAt(tt.text, now), 0.11)
		})
	}
}

func TestEstimateExperienceYearsPresent(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	years := EstimateExperienceYearsAt("ML Engineer, Jan 2020 - Present", now)
	assert.InDelta(t, 5.0, years, 0.11)
}

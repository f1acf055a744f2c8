package parser

import (
	"math"
	"regexp"
	"strings"
	"time"

	"resume-match-go/internal/constants"
)

// dateRangePattern 匹配 "Jan 2020 - Mar 2022"、"2019 - 2021"、"Jun 2021 - Present" 等时间区间
var dateRangePattern = regexp.MustCompile(
	`(?i)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)?\.?\s?\d{4})\s*[-–]\s*((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)?\.?\s?\d{4}|Present)`)

// EstimateExperienceYears 从简历文本的时间区间估算工作年限
// 文本中没有可识别的区间时返回默认值1.0
func EstimateExperienceYears(text string) float64 {
	return EstimateExperienceYearsAt(text, time.Now())
}

// EstimateExperienceYearsAt 与EstimateExperienceYears相同, 但以now作为"Present"的落点, 便于测试
func EstimateExperienceYearsAt(text string, now time.Time) float64 {
	matches := dateRangePattern.FindAllStringSubmatch(text, -1)

	total := 0.0
	for _, match := range matches {
		start, err := parseFlexibleDate(match[1])
		if err != nil {
			continue
		}

		var end time.Time
		if strings.EqualFold(strings.TrimSpace(match[2]), "present") {
			end = now
		} else {
			end, err = parseFlexibleDate(match[2])
			if err != nil {
				continue
			}
		}

		if years := end.Sub(start).Hours() / 24 / 365; years > 0 {
			total += years
		}
	}

	if total <= 0 {
		return constants.DefaultExperienceYears
	}
	return math.Round(total*10) / 10
}

// parseFlexibleDate 依次尝试 "Jan 2006"、"2006"、缺失年份的 "Jan" 三种写法
func parseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse("Jan 2006", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006", s); err == nil {
		return t, nil
	}
	return time.Parse("Jan 2006", "Jan "+s)
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunConfigValidate(t *testing.T) {
	valid := RunConfig{
		From: "2025-09", To: "2025-10",
		TeambookIDs: "5449", TeambookLevel: 2,
		ReportType: ReportFull,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"bad from", func(c *RunConfig) { c.From = "2025-13" }},
		{"bad to", func(c *RunConfig) { c.To = "sept" }},
		{"missing ids", func(c *RunConfig) { c.TeambookIDs = "" }},
		{"level too low", func(c *RunConfig) { c.TeambookLevel = 0 }},
		{"level too high", func(c *RunConfig) { c.TeambookLevel = 6 }},
		{"bad report type", func(c *RunConfig) { c.ReportType = "weekly" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2025, 9, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "dora_report_20250902_150405.csv", DefaultOutputPath(ReportFull, now))
	assert.Equal(t, "lttd_filtered_report_20250902_150405.csv", DefaultOutputPath(ReportFiltered, now))
}

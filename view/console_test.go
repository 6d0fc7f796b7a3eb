package view

import (
	"bytes"
	"testing"

	"github.com/mylucky2d3d/crawler/lottery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaily(t *testing.T) {
	r := lottery.NewDailyRecord()
	r.Title, r.Date, r.LiveNumber = "2D Live", "04/Nov/2025", "45"
	r.PM.Result = "87"
	r.Additional.AM.ModernValue = "38"

	var buf bytes.Buffer
	require.NoError(t, Any(&buf, r))
	out := buf.String()
	for _, want := range []string{"2D Live", "04/Nov/2025", "45", "16:30 PM", "87", "9:30 AM", "38"} {
		assert.Contains(t, out, want)
	}
}

func TestLists(t *testing.T) {
	var buf bytes.Buffer
	w := lottery.NewWeeklyRecord("04/Nov/2025", "Tuesday")
	w.Additional.PM.ModernValue, w.Additional.PM.InternetValue = "06", "92"
	require.NoError(t, Any(&buf, []lottery.WeeklyRecord{w}))
	assert.Contains(t, buf.String(), "2D weekly (1 days)")
	assert.Contains(t, buf.String(), "06 / 92")

	buf.Reset()
	require.NoError(t, Any(&buf, []lottery.ThreeDRecord{{Date: "01/Nov/2025", Day: "Sat", Result: "123"}}))
	assert.Contains(t, buf.String(), "Sat")

	assert.Error(t, Any(&buf, 42))
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountUploadLimit(t *testing.T) {
	free := &Account{}
	pro := &Account{IsPro: true}

	assert.Equal(t, 10, free.UploadLimitMB())
	assert.Equal(t, "Free", free.PlanName())
	assert.Equal(t, 100, pro.UploadLimitMB())
	assert.Equal(t, "Pro", pro.PlanName())
}

func TestAccountSummaryOmitsSecrets(t *testing.T) {
	a := &Account{ID: "a1", Username: "ana", Email: "ana@example.com", Password: "hash", IsPro: true}

	assert.Equal(t, AccountSummary{ID: "a1", Username: "ana", Email: "ana@example.com", IsPro: true}, a.Summary())
}

func TestBytesToMB(t *testing.T) {
	assert.InDelta(t, 1.0, BytesToMB(1024*1024), 1e-9)
	assert.InDelta(t, 0.5, BytesToMB(512*1024), 1e-9)
	assert.Equal(t, 1.23, RoundMB(1.2345))
	assert.Equal(t, 0.0, RoundMB(0.001))
}

func TestBuildDashboardStats(t *testing.T) {
	t.Run("no logs", func(t *testing.T) {
		stats := BuildDashboardStats(nil, false)

		assert.Equal(t, 0, stats.TotalProcessed)
		assert.Empty(t, stats.ToolsUsed)
		assert.NotNil(t, stats.ToolsUsed)
		assert.Equal(t, 0.0, stats.TotalSizeMB)
		assert.Equal(t, 0.0, stats.AverageProcessingTime)
		assert.Empty(t, stats.RecentLogs)
		assert.False(t, stats.IsPro)
	})

	t.Run("aggregates and truncates recent logs", func(t *testing.T) {
		var logs []ProcessingLog
		tools := []ToolType{ToolConvert, ToolResize, ToolConvert, ToolCompress}
		var wantSize float64
		for i := 0; i < 12; i++ {
			size := float64(i) + 0.25
			wantSize += size
			logs = append(logs, ProcessingLog{
				ID:               string(rune('a' + i)),
				ToolType:         tools[i%len(tools)],
				FileSizeMB:       size,
				ProcessingTimeMs: int64(10 * (i + 1)),
			})
		}

		stats := BuildDashboardStats(logs, true)

		assert.Equal(t, 12, stats.TotalProcessed)
		assert.Equal(t, []ToolType{ToolConvert, ToolResize, ToolCompress}, stats.ToolsUsed)
		assert.InDelta(t, wantSize, stats.TotalSizeMB, 1e-9)
		assert.InDelta(t, 65.0, stats.AverageProcessingTime, 1e-9)
		assert.Len(t, stats.RecentLogs, DashboardRecentLogs)
		assert.Equal(t, "a", stats.RecentLogs[0].ID)
		assert.True(t, stats.IsPro)
	})

	t.Run("total size has no float drift", func(t *testing.T) {
		stats := BuildDashboardStats([]ProcessingLog{
			{ID: "b", ToolType: ToolCompress, FileSizeMB: 0.10},
			{ID: "a", ToolType: ToolCompress, FileSizeMB: 0.20},
		}, false)
		assert.Equal(t, 0.3, stats.TotalSizeMB)
	})
}

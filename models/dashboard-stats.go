package models

const (
	DashboardLogWindow  = 100
	DashboardRecentLogs = 10
)

type DashboardStats struct {
	TotalProcessed        int             `json:"totalProcessed"`
	ToolsUsed             []ToolType      `json:"toolsUsed"`
	TotalSizeMB           float64         `json:"totalSizeMB"`
	AverageProcessingTime float64         `json:"averageProcessingTime"`
	RecentLogs            []ProcessingLog `json:"recentLogs"`
	IsPro                 bool            `json:"isPro"`
}

// BuildDashboardStats aggregates logs ordered most recent first.
func BuildDashboardStats(logs []ProcessingLog, isPro bool) DashboardStats {
	stats := DashboardStats{
		TotalProcessed: len(logs),
		ToolsUsed:      []ToolType{},
		RecentLogs:     []ProcessingLog{},
		IsPro:          isPro,
	}

	seen := make(map[ToolType]bool)
	var totalTime int64
	for _, l := range logs {
		if !seen[l.ToolType] {
			seen[l.ToolType] = true
			stats.ToolsUsed = append(stats.ToolsUsed, l.ToolType)
		}
		stats.TotalSizeMB += l.FileSizeMB
		totalTime += l.ProcessingTimeMs
	}
	stats.TotalSizeMB = RoundMB(stats.TotalSizeMB)

	if len(logs) > 0 {
		stats.AverageProcessingTime = float64(totalTime) / float64(len(logs))
	}

	recent := logs
	if len(recent) > DashboardRecentLogs {
		recent = recent[:DashboardRecentLogs]
	}
	stats.RecentLogs = append(stats.RecentLogs, recent...)

	return stats
}

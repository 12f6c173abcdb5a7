package db

import (
	"fmt"
	"os"
	"strings"

	"github.com/vellumdb/VellumDB/ps"
)

type ResultType int

const (
	QueryResultType ResultType = iota
	CommitResultType
)

type Result interface {
	Type() ResultType
	Display()
}

type QueryResult struct {
	Transaction      ps.Transaction
	Columns          []string
	Data             [][]string
	RecordsRead      int
	ExecutionTimeSec float64
	ExecutionOps     int
}

type CommitResult struct {
	Transaction      ps.Transaction
	Message          string
	DatabasesCreated int
	DatabasesDeleted int
	TablesCreated    int
	TablesDeleted    int
	TablesAltered    int
	RecordsWritten   int
	RecordsDeleted   int
	ExecutionTimeSec float64
	ExecutionOps     int
}

func (result QueryResult) Type() ResultType {
	return QueryResultType
}

func (result CommitResult) Type() ResultType {
	return CommitResultType
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 0.01 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 1 {
		ms := secs * 1000
		if ms < 10 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	} else {
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}

func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result CommitResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

// throughput renders an ops/s suffix for the stats line
func throughput(ops int, secs float64) string {
	if secs <= 0 || ops <= 0 {
		return ""
	}
	rate := float64(ops) / secs
	if rate >= 1000000 {
		return fmt.Sprintf(", %.1fM ops/s", rate/1000000)
	} else if rate >= 1000 {
		return fmt.Sprintf(", %.1fK ops/s", rate/1000)
	}
	return fmt.Sprintf(", %.0f ops/s", rate)
}

func (result QueryResult) Display() {
	if len(result.Data) > 0 {
		data := NewTable(os.Stdout)
		data.Header(result.Columns)
		data.Bulk(result.Data)
		data.Render()
	}

	fmt.Printf("%d rows (%s%s)\n", result.RecordsRead, result.ExecutionTime(), throughput(result.ExecutionOps, result.ExecutionTimeSec))
}

func (result CommitResult) Display() {
	if result.Message != "" {
		fmt.Println(result.Message)
		return
	}

	var parts []string

	if result.DatabasesCreated > 0 {
		parts = append(parts, fmt.Sprintf("%d database(s) created", result.DatabasesCreated))
	}
	if result.DatabasesDeleted > 0 {
		parts = append(parts, fmt.Sprintf("%d database(s) deleted", result.DatabasesDeleted))
	}
	if result.TablesCreated > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) created", result.TablesCreated))
	}
	if result.TablesDeleted > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) deleted", result.TablesDeleted))
	}
	if result.TablesAltered > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) altered", result.TablesAltered))
	}
	if result.RecordsWritten > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s) written", result.RecordsWritten))
	}
	if result.RecordsDeleted > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s) deleted", result.RecordsDeleted))
	}

	if len(parts) == 0 {
		fmt.Printf("OK (%s%s)\n", result.ExecutionTime(), throughput(result.ExecutionOps, result.ExecutionTimeSec))
	} else {
		fmt.Printf("%s (%s%s)\n", strings.Join(parts, ", "), result.ExecutionTime(), throughput(result.ExecutionOps, result.ExecutionTimeSec))
	}
}

package db

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vellumdb/VellumDB/op"
	"github.com/vellumdb/VellumDB/ps"
	"github.com/vellumdb/VellumDB/sql"
)

func (session *Session) executeSelectStatement(statement sql.SelectStatement) (QueryResult, error) {
	startTime := time.Now()
	rowsScanned := 0

	if len(statement.Tables) == 0 {
		return QueryResult{}, errors.New("expected at least one table in FROM")
	}

	// Load each FROM table. A comma-separated FROM list is a cross
	// product; the join predicate arrives through the WHERE clause.
	var results []map[string]string
	var columns []string
	for i, ref := range statement.Tables {
		database, err := session.resolveDatabase(ref.Database)
		if err != nil {
			return QueryResult{}, err
		}

		tableOp, err := op.GetTable(database, ref.Table, session.Persistence)
		if err != nil {
			return QueryResult{}, err
		}

		var rows []map[string]string
		for _, rawData := range tableOp.Scan() {
			rowsScanned++

			var row map[string]string
			if err := json.Unmarshal(rawData, &row); err != nil {
				return QueryResult{}, err
			}
			rows = append(rows, row)
		}

		if i == 0 {
			results = rows
		} else {
			results = crossJoin(results, rows)
		}

		if len(statement.Columns) == 0 {
			for _, column := range tableOp.Table.Columns {
				columns = append(columns, column.Name)
			}
		}
	}

	// Execute explicit JOINs
	for _, join := range statement.Joins {
		database, err := session.resolveDatabase(join.Table.Database)
		if err != nil {
			return QueryResult{}, err
		}

		joinTableOp, err := op.GetTable(database, join.Table.Table, session.Persistence)
		if err != nil {
			return QueryResult{}, err
		}

		var joinRows []map[string]string
		for _, rawData := range joinTableOp.Scan() {
			rowsScanned++

			var row map[string]string
			if err := json.Unmarshal(rawData, &row); err != nil {
				return QueryResult{}, err
			}
			joinRows = append(joinRows, row)
		}

		results = executeJoin(results, joinRows, join)

		if len(statement.Columns) == 0 {
			for _, column := range joinTableOp.Table.Columns {
				columns = append(columns, column.Name)
			}
		}
	}

	if len(statement.Columns) > 0 {
		columns = statement.Columns
	}

	// Apply WHERE clause filtering (after joins)
	if len(statement.Where.Conditions) > 0 {
		var filtered []map[string]string
		for _, row := range results {
			if matchesWhereClause(row, statement.Where) {
				filtered = append(filtered, row)
			}
		}
		results = filtered
	}

	if len(statement.OrderBy) > 0 {
		sortResults(results, statement.OrderBy)
	}

	// COUNT(*) returns the count before LIMIT/OFFSET
	if statement.CountAll {
		countResult := [][]string{{strconv.Itoa(len(results))}}
		return QueryResult{
			Transaction:      session.Persistence.LatestTransaction(),
			Columns:          []string{"COUNT(*)"},
			Data:             countResult,
			RecordsRead:      len(results),
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     rowsScanned,
		}, nil
	}

	if len(statement.Aggregates) > 0 {
		return executeAggregates(results, statement, session.Persistence.LatestTransaction(), startTime, rowsScanned)
	}

	// Apply OFFSET
	if statement.Offset > 0 {
		if statement.Offset >= len(results) {
			results = []map[string]string{}
		} else {
			results = results[statement.Offset:]
		}
	}

	// Apply LIMIT
	if statement.Limit > 0 && len(results) > statement.Limit {
		results = results[:statement.Limit]
	}

	// Convert results to column-ordered output
	outputData := make([][]string, len(results))
	for i, row := range results {
		outputData[i] = make([]string, len(columns))
		for j, column := range columns {
			outputData[i][j] = getColumnValue(row, column)
		}
	}

	return QueryResult{
		Transaction:      session.Persistence.LatestTransaction(),
		Columns:          columns,
		Data:             outputData,
		RecordsRead:      len(outputData),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     rowsScanned,
	}, nil
}

// executeAggregates evaluates COUNT, SUM, AVG, MIN, MAX over the result set
func executeAggregates(results []map[string]string, statement sql.SelectStatement, txn ps.Transaction, startTime time.Time, opCount int) (QueryResult, error) {
	var outputColumns []string
	row := make([]string, 0, len(statement.Aggregates))

	for _, agg := range statement.Aggregates {
		colName := agg.Function + "(" + agg.Column + ")"
		if agg.Alias != "" {
			colName = agg.Alias
		}
		outputColumns = append(outputColumns, colName)
		row = append(row, calculateAggregate(results, agg.Function, agg.Column))
	}

	return QueryResult{
		Transaction:      txn,
		Columns:          outputColumns,
		Data:             [][]string{row},
		RecordsRead:      len(results),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     opCount,
	}, nil
}

// calculateAggregate calculates a single aggregate function over a set of rows
func calculateAggregate(rows []map[string]string, function, column string) string {
	if len(rows) == 0 {
		// MIN/MAX have no identity value; COUNT/SUM/AVG report 0
		if function == "MIN" || function == "MAX" {
			return ""
		}
		return "0"
	}

	switch function {
	case "COUNT":
		return strconv.Itoa(len(rows))

	case "SUM":
		sum := 0.0
		for _, row := range rows {
			val, err := strconv.ParseFloat(getColumnValue(row, column), 64)
			if err == nil {
				sum += val
			}
		}
		if sum == float64(int(sum)) {
			return strconv.Itoa(int(sum))
		}
		return strconv.FormatFloat(sum, 'f', 2, 64)

	case "AVG":
		sum := 0.0
		count := 0
		for _, row := range rows {
			val, err := strconv.ParseFloat(getColumnValue(row, column), 64)
			if err == nil {
				sum += val
				count++
			}
		}
		if count == 0 {
			return "0"
		}
		avg := sum / float64(count)
		return strconv.FormatFloat(avg, 'f', 2, 64)

	case "MIN":
		var minVal *float64
		for _, row := range rows {
			val, err := strconv.ParseFloat(getColumnValue(row, column), 64)
			if err == nil {
				if minVal == nil || val < *minVal {
					v := val
					minVal = &v
				}
			}
		}
		if minVal == nil {
			return ""
		}
		if *minVal == float64(int(*minVal)) {
			return strconv.Itoa(int(*minVal))
		}
		return strconv.FormatFloat(*minVal, 'f', 2, 64)

	case "MAX":
		var maxVal *float64
		for _, row := range rows {
			val, err := strconv.ParseFloat(getColumnValue(row, column), 64)
			if err == nil {
				if maxVal == nil || val > *maxVal {
					v := val
					maxVal = &v
				}
			}
		}
		if maxVal == nil {
			return ""
		}
		if *maxVal == float64(int(*maxVal)) {
			return strconv.Itoa(int(*maxVal))
		}
		return strconv.FormatFloat(*maxVal, 'f', 2, 64)

	default:
		return ""
	}
}

// crossJoin builds the cartesian product of two result sets
func crossJoin(leftRows, rightRows []map[string]string) []map[string]string {
	var results []map[string]string
	for _, leftRow := range leftRows {
		for _, rightRow := range rightRows {
			results = append(results, mergeRows(leftRow, rightRow))
		}
	}
	return results
}

// executeJoin performs a nested-loop join between two result sets
func executeJoin(leftRows, rightRows []map[string]string, join sql.JoinClause) []map[string]string {
	var results []map[string]string

	switch join.Type {
	case "INNER":
		for _, leftRow := range leftRows {
			for _, rightRow := range rightRows {
				if matchJoinCondition(leftRow, rightRow, join) {
					results = append(results, mergeRows(leftRow, rightRow))
				}
			}
		}

	case "LEFT":
		for _, leftRow := range leftRows {
			matched := false
			for _, rightRow := range rightRows {
				if matchJoinCondition(leftRow, rightRow, join) {
					results = append(results, mergeRows(leftRow, rightRow))
					matched = true
				}
			}
			if !matched {
				// Left row survives; right columns read as empty
				results = append(results, leftRow)
			}
		}
	}

	return results
}

// matchJoinCondition checks if two rows satisfy the join ON condition
func matchJoinCondition(leftRow, rightRow map[string]string, join sql.JoinClause) bool {
	leftVal := getColumnValue(leftRow, join.LeftCol)
	rightVal := getColumnValue(rightRow, join.RightCol)
	return leftVal == rightVal
}

// getColumnValue extracts a column value, handling the alias.column form.
// Column names are unique across joined tables, so stripping the prefix
// is unambiguous.
func getColumnValue(row map[string]string, colName string) string {
	if val, ok := row[colName]; ok {
		return val
	}
	parts := strings.Split(colName, ".")
	if len(parts) == 2 {
		if val, ok := row[parts[1]]; ok {
			return val
		}
	}
	return ""
}

// mergeRows combines two row maps into one
func mergeRows(left, right map[string]string) map[string]string {
	merged := make(map[string]string)
	for k, v := range left {
		merged[k] = v
	}
	for k, v := range right {
		merged[k] = v
	}
	return merged
}

// matchesWhereClause evaluates the WHERE clause with AND binding tighter
// than OR. Conditions form AND groups separated by OR; the row matches
// when any group is fully satisfied.
func matchesWhereClause(row map[string]string, where sql.WhereClause) bool {
	if len(where.Conditions) == 0 {
		return true
	}

	group := evaluateCondition(row, where.Conditions[0])

	for i := 1; i < len(where.Conditions); i++ {
		op := sql.LogicalAnd
		if i-1 < len(where.LogicalOps) {
			op = where.LogicalOps[i-1]
		}

		if op == sql.LogicalOr {
			if group {
				return true
			}
			group = evaluateCondition(row, where.Conditions[i])
		} else {
			group = group && evaluateCondition(row, where.Conditions[i])
		}
	}

	return group
}

// evaluateCondition evaluates a single WHERE condition
func evaluateCondition(row map[string]string, cond sql.WhereCondition) bool {
	value := getColumnValue(row, cond.Left)

	right := cond.Right
	if cond.RightIsColumn {
		right = getColumnValue(row, cond.Right)
	}

	switch cond.Operator {
	case sql.EqualsOperator:
		return value == right
	case sql.NotEqualsOperator:
		return value != right
	case sql.LessThanOperator:
		return compareValues(value, right) < 0
	case sql.GreaterThanOperator:
		return compareValues(value, right) > 0
	case sql.LessThanOrEqualOperator:
		return compareValues(value, right) <= 0
	case sql.GreaterThanOrEqualOperator:
		return compareValues(value, right) >= 0
	default:
		return false
	}
}

// compareValues compares two values, trying numeric comparison first, then string
func compareValues(a, b string) int {
	aNum, aErr := strconv.ParseFloat(a, 64)
	bNum, bErr := strconv.ParseFloat(b, 64)

	if aErr == nil && bErr == nil {
		if aNum < bNum {
			return -1
		} else if aNum > bNum {
			return 1
		}
		return 0
	}

	return strings.Compare(a, b)
}

// sortResults sorts the results by ORDER BY clauses
func sortResults(results []map[string]string, orderBy []sql.OrderByClause) {
	sort.SliceStable(results, func(i, j int) bool {
		for _, clause := range orderBy {
			valI := getColumnValue(results[i], clause.Column)
			valJ := getColumnValue(results[j], clause.Column)

			cmp := compareValues(valI, valJ)
			if cmp != 0 {
				if clause.Descending {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return false
	})
}

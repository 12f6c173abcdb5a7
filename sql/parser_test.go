package sql

import (
	"reflect"
	"testing"

	"github.com/vellumdb/VellumDB/core"
)

func TestParser(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected Statement
	}{
		{
			"select wildcard",
			"SELECT * FROM test",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
			},
		},
		{
			"select wildcard qualified",
			"SELECT * FROM db.test",
			SelectStatement{
				Tables:  []TableRef{{Database: "db", Table: "test"}},
				Columns: []string{},
			},
		},
		{
			"select columns",
			"SELECT col_1, col_2 FROM test",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{"col_1", "col_2"},
			},
		},
		{
			"select with where int",
			"SELECT col_1, col_2 FROM test WHERE col_1 = 10",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{"col_1", "col_2"},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "col_1", Operator: EqualsOperator, Right: "10"}}},
			},
		},
		{
			"select with where string",
			"SELECT col_1, col_2 FROM test WHERE col_2 = 'green'",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{"col_1", "col_2"},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "col_2", Operator: EqualsOperator, Right: "green"}}},
			},
		},
		{
			"select with where string and int",
			"SELECT col_1, col_2 FROM test WHERE col_1 = 'green' AND col_2 = 5",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{"col_1", "col_2"},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "col_1", Operator: EqualsOperator, Right: "green"}, {Left: "col_2", Operator: EqualsOperator, Right: "5"}}, LogicalOps: []LogicalOperator{LogicalAnd}},
			},
		},
		{
			"select with or condition",
			"SELECT * FROM test WHERE col = 1 OR col = 2",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "col", Operator: EqualsOperator, Right: "1"}, {Left: "col", Operator: EqualsOperator, Right: "2"}}, LogicalOps: []LogicalOperator{LogicalOr}},
			},
		},
		{
			"select with not equals",
			"SELECT * FROM test WHERE col != 5",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "col", Operator: NotEqualsOperator, Right: "5"}}},
			},
		},
		{
			"select with angle bracket not equals",
			"SELECT * FROM test WHERE col <> 5",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "col", Operator: NotEqualsOperator, Right: "5"}}},
			},
		},
		{
			"select with comparison operators",
			"SELECT * FROM test WHERE a < 10 AND b > 1 AND c <= 3 AND d >= 4",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
				Where: WhereClause{
					Conditions: []WhereCondition{
						{Left: "a", Operator: LessThanOperator, Right: "10"},
						{Left: "b", Operator: GreaterThanOperator, Right: "1"},
						{Left: "c", Operator: LessThanOrEqualOperator, Right: "3"},
						{Left: "d", Operator: GreaterThanOrEqualOperator, Right: "4"},
					},
					LogicalOps: []LogicalOperator{LogicalAnd, LogicalAnd, LogicalAnd},
				},
			},
		},
		{
			"select implicit join",
			"SELECT * FROM flight f, carrier c WHERE f.carrier_id = c.cid",
			SelectStatement{
				Tables:  []TableRef{{Table: "flight", Alias: "f"}, {Table: "carrier", Alias: "c"}},
				Columns: []string{},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "f.carrier_id", Operator: EqualsOperator, Right: "c.cid", RightIsColumn: true}}},
			},
		},
		{
			"select inner join",
			"SELECT * FROM flight INNER JOIN carrier ON carrier_id = cid",
			SelectStatement{
				Tables:  []TableRef{{Table: "flight"}},
				Columns: []string{},
				Joins:   []JoinClause{{Type: "INNER", Table: TableRef{Table: "carrier"}, LeftCol: "carrier_id", RightCol: "cid"}},
			},
		},
		{
			"select left outer join with aliases",
			"SELECT * FROM flight f LEFT OUTER JOIN carrier c ON f.carrier_id = c.cid",
			SelectStatement{
				Tables:  []TableRef{{Table: "flight", Alias: "f"}},
				Columns: []string{},
				Joins:   []JoinClause{{Type: "LEFT", Table: TableRef{Table: "carrier", Alias: "c"}, LeftCol: "f.carrier_id", RightCol: "c.cid"}},
			},
		},
		{
			"select with order by desc",
			"SELECT * FROM test ORDER BY col DESC",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
				OrderBy: []OrderByClause{{Column: "col", Descending: true}},
			},
		},
		{
			"select with order by multiple columns",
			"SELECT * FROM test ORDER BY col1 ASC, col2 DESC",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
				OrderBy: []OrderByClause{{Column: "col1", Descending: false}, {Column: "col2", Descending: true}},
			},
		},
		{
			"select with limit and offset",
			"SELECT * FROM test LIMIT 10 OFFSET 5",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
				Limit:   10,
				Offset:  5,
			},
		},
		{
			"select count star",
			"SELECT COUNT(*) FROM test",
			SelectStatement{
				Tables:   []TableRef{{Table: "test"}},
				CountAll: true,
			},
		},
		{
			"select count column",
			"SELECT COUNT(id) FROM test",
			SelectStatement{
				Tables:     []TableRef{{Table: "test"}},
				Aggregates: []AggregateExpr{{Function: "COUNT", Column: "id"}},
			},
		},
		{
			"select multiple aggregates with alias",
			"SELECT SUM(amount), AVG(price) AS avg_price FROM test",
			SelectStatement{
				Tables:     []TableRef{{Table: "test"}},
				Aggregates: []AggregateExpr{{Function: "SUM", Column: "amount"}, {Function: "AVG", Column: "price", Alias: "avg_price"}},
			},
		},
		{
			"select min and max",
			"SELECT MIN(price), MAX(price) FROM test",
			SelectStatement{
				Tables:     []TableRef{{Table: "test"}},
				Aggregates: []AggregateExpr{{Function: "MIN", Column: "price"}, {Function: "MAX", Column: "price"}},
			},
		},
		{
			"create table",
			"CREATE TABLE test (col_1 int, col_2 varchar(16))",
			CreateTableStatement{
				Table: "test",
				Columns: []core.Column{
					{Name: "col_1", Type: core.IntType},
					{Name: "col_2", Type: core.VarcharType, Size: 16},
				},
			},
		},
		{
			"create table all types",
			"CREATE TABLE test (a int, b float, c varchar(8), d char(2))",
			CreateTableStatement{
				Table: "test",
				Columns: []core.Column{
					{Name: "a", Type: core.IntType},
					{Name: "b", Type: core.FloatType},
					{Name: "c", Type: core.VarcharType, Size: 8},
					{Name: "d", Type: core.CharType, Size: 2},
				},
			},
		},
		{
			"drop table",
			"DROP TABLE db.test",
			DropTableStatement{
				Database: "db",
				Table:    "test",
			},
		},
		{
			"alter table add column",
			"ALTER TABLE test ADD note varchar(32)",
			AlterTableStatement{
				Table:  "test",
				Column: core.Column{Name: "note", Type: core.VarcharType, Size: 32},
			},
		},
		{
			"insert positional",
			"INSERT INTO test VALUES (1, 'value')",
			InsertStatement{
				Table:  "test",
				Values: []string{"1", "value"},
			},
		},
		{
			"insert with columns",
			"INSERT INTO db.test (col_1, col_2) VALUES ('value', 1)",
			InsertStatement{
				Database: "db",
				Table:    "test",
				Columns:  []string{"col_1", "col_2"},
				Values:   []string{"value", "1"},
			},
		},
		{
			"insert float",
			"INSERT INTO test VALUES (3.5)",
			InsertStatement{
				Table:  "test",
				Values: []string{"3.5"},
			},
		},
		{
			"insert negative int",
			"INSERT INTO test VALUES (-5, 'overdrawn')",
			InsertStatement{
				Table:  "test",
				Values: []string{"-5", "overdrawn"},
			},
		},
		{
			"insert negative float",
			"INSERT INTO test VALUES (-3.25)",
			InsertStatement{
				Table:  "test",
				Values: []string{"-3.25"},
			},
		},
		{
			"update to negative value",
			"UPDATE test SET balance = -10 WHERE id = 1",
			UpdateStatement{
				Table: "test",
				Updates: []SetClause{
					{Column: "balance", Value: "-10"},
				},
				Where: WhereClause{Conditions: []WhereCondition{{Left: "id", Operator: EqualsOperator, Right: "1"}}},
			},
		},
		{
			"select where negative literal",
			"SELECT * FROM test WHERE balance < -100",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "balance", Operator: LessThanOperator, Right: "-100"}}},
			},
		},
		{
			"update table",
			"UPDATE test SET col_1 = 'value' WHERE col_2 = 5",
			UpdateStatement{
				Table: "test",
				Updates: []SetClause{
					{Column: "col_1", Value: "value"},
				},
				Where: WhereClause{Conditions: []WhereCondition{{Left: "col_2", Operator: EqualsOperator, Right: "5"}}},
			},
		},
		{
			"delete table",
			"DELETE FROM test WHERE col_1 = 'value 123'",
			DeleteStatement{
				Table: "test",
				Where: WhereClause{Conditions: []WhereCondition{{Left: "col_1", Operator: EqualsOperator, Right: "value 123"}}},
			},
		},
		{
			"create database",
			"CREATE DATABASE test",
			CreateDatabaseStatement{
				Database: "test",
			},
		},
		{
			"drop database",
			"DROP DATABASE test",
			DropDatabaseStatement{
				Database: "test",
			},
		},
		{
			"use database",
			"USE test",
			UseStatement{
				Database: "test",
			},
		},
		{
			"begin transaction",
			"BEGIN TRANSACTION",
			BeginStatement{},
		},
		{
			"bare begin",
			"BEGIN",
			BeginStatement{},
		},
		{
			"commit",
			"COMMIT",
			CommitStatement{},
		},
		{
			"show databases",
			"SHOW DATABASES",
			ShowDatabasesStatement{},
		},
		{
			"show tables",
			"SHOW TABLES",
			ShowTablesStatement{},
		},
		{
			"show tables in database",
			"SHOW TABLES test",
			ShowTablesStatement{Database: "test"},
		},
		{
			"describe table",
			"DESCRIBE db.test",
			DescribeStatement{Database: "db", Table: "test"},
		},
		{
			"exit",
			"EXIT",
			ExitStatement{},
		},
		{
			"lowercase keywords",
			"select * from test where col = 'x'",
			SelectStatement{
				Tables:  []TableRef{{Table: "test"}},
				Columns: []string{},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "col", Operator: EqualsOperator, Right: "x"}}},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := parse(test.sql)

			if err != nil {
				t.Errorf("Test Failed: Unexpected error: %v", err)
				return
			}

			if !reflect.DeepEqual(actual, test.expected) {
				t.Errorf("Test Failed: Expected %+v, got %+v", test.expected, actual)
			}
		})
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"empty statement", ""},
		{"unknown statement", "EXPLAIN test"},
		{"select missing from", "SELECT col"},
		{"join missing on", "SELECT * FROM a INNER JOIN b"},
		{"insert missing values", "INSERT INTO test (col)"},
		{"create table missing type size", "CREATE TABLE test (a varchar)"},
		{"alter without add", "ALTER TABLE test DROP col"},
		{"use without database", "USE"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := parse(test.sql); err == nil {
				t.Errorf("Test Failed: expected error for %q", test.sql)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("SELECT * FROM test WHERE id = 1;")

	expected := []TokenType{Select, Wildcard, From, Identifier, Where, Identifier, Equals, Int, Semicolon, EOF}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tokenType := range expected {
		if tokens[i].Type != tokenType {
			t.Errorf("Token %d: expected %v, got %v", i, tokenType, tokens[i])
		}
	}
}

package sql

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vellumdb/VellumDB/core"
)

type StatementType int

const (
	SelectStatementType StatementType = iota
	InsertStatementType
	UpdateStatementType
	DeleteStatementType
	CreateTableStatementType
	DropTableStatementType
	CreateDatabaseStatementType
	DropDatabaseStatementType
	AlterTableStatementType
	BeginStatementType
	CommitStatementType
	DescribeStatementType
	ShowDatabasesStatementType
	ShowTablesStatementType
	UseStatementType
	ExitStatementType
)

type Statement interface {
	Type() StatementType
}

// TableRef names a table in a FROM or JOIN clause. Database is empty when
// the reference is unqualified and must be resolved against the session's
// current database.
type TableRef struct {
	Database string
	Table    string
	Alias    string
}

type SelectStatement struct {
	// Tables holds the comma-separated FROM list. More than one entry
	// means an implicit inner join.
	Tables     []TableRef
	Columns    []string
	Aggregates []AggregateExpr
	Joins      []JoinClause
	CountAll   bool
	Where      WhereClause
	OrderBy    []OrderByClause
	Limit      int
	Offset     int
}

type JoinClause struct {
	Type     string // INNER, LEFT
	Table    TableRef
	LeftCol  string
	RightCol string
}

type AggregateExpr struct {
	Function string // COUNT, SUM, AVG, MIN, MAX
	Column   string
	Alias    string
}

type InsertStatement struct {
	Database string
	Table    string
	// Columns is empty for the positional form; values then map to the
	// table schema in declaration order.
	Columns []string
	Values  []string
}

type UpdateStatement struct {
	Database string
	Table    string
	Updates  []SetClause
	Where    WhereClause
}

type SetClause struct {
	Column string
	Value  string
}

type DeleteStatement struct {
	Database string
	Table    string
	Where    WhereClause
}

type CreateTableStatement struct {
	Database string
	Table    string
	Columns  []core.Column
}

type DropTableStatement struct {
	Database string
	Table    string
}

type CreateDatabaseStatement struct {
	Database string
}

type DropDatabaseStatement struct {
	Database string
}

type AlterTableStatement struct {
	Database string
	Table    string
	Column   core.Column
}

type BeginStatement struct{}
type CommitStatement struct{}

type DescribeStatement struct {
	Database string
	Table    string
}

type ShowDatabasesStatement struct{}

type ShowTablesStatement struct {
	Database string
}

type UseStatement struct {
	Database string
}

type ExitStatement struct{}

type WhereClause struct {
	Conditions []WhereCondition
	LogicalOps []LogicalOperator // AND/OR between conditions
}

type LogicalOperator int

const (
	LogicalAnd LogicalOperator = iota
	LogicalOr
)

type WhereCondition struct {
	Left     string
	Operator WhereOperator
	Right    string
	// RightIsColumn marks Right as a column reference rather than a
	// literal (join predicates in the implicit-join form).
	RightIsColumn bool
}

type WhereOperator int

const (
	EqualsOperator WhereOperator = iota
	NotEqualsOperator
	LessThanOperator
	GreaterThanOperator
	LessThanOrEqualOperator
	GreaterThanOrEqualOperator
)

type OrderByClause struct {
	Column     string
	Descending bool
}

func (s SelectStatement) Type() StatementType {
	return SelectStatementType
}

func (s InsertStatement) Type() StatementType {
	return InsertStatementType
}

func (s UpdateStatement) Type() StatementType {
	return UpdateStatementType
}

func (s DeleteStatement) Type() StatementType {
	return DeleteStatementType
}

func (s CreateTableStatement) Type() StatementType {
	return CreateTableStatementType
}

func (s DropTableStatement) Type() StatementType {
	return DropTableStatementType
}

func (s CreateDatabaseStatement) Type() StatementType {
	return CreateDatabaseStatementType
}

func (s DropDatabaseStatement) Type() StatementType {
	return DropDatabaseStatementType
}

func (s AlterTableStatement) Type() StatementType {
	return AlterTableStatementType
}

func (s BeginStatement) Type() StatementType {
	return BeginStatementType
}

func (s CommitStatement) Type() StatementType {
	return CommitStatementType
}

func (s DescribeStatement) Type() StatementType {
	return DescribeStatementType
}

func (s ShowDatabasesStatement) Type() StatementType {
	return ShowDatabasesStatementType
}

func (s ShowTablesStatement) Type() StatementType {
	return ShowTablesStatementType
}

func (s UseStatement) Type() StatementType {
	return UseStatementType
}

func (s ExitStatement) Type() StatementType {
	return ExitStatementType
}

type Parser struct {
	lexer *Lexer
}

func NewParser(sql string) *Parser {
	lexer := NewLexer(sql)
	return &Parser{lexer: lexer}
}

func (parser *Parser) Parse() (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case Select:
		return ParseSelect(parser)
	case Insert:
		return ParseInsert(parser)
	case Update:
		return ParseUpdate(parser)
	case Delete:
		return ParseDelete(parser)
	case Create:
		return ParseCreate(parser)
	case Drop:
		return ParseDrop(parser)
	case Alter:
		return ParseAlter(parser)
	case Begin:
		// BEGIN or BEGIN TRANSACTION
		nextToken := parser.lexer.PeekToken()
		if nextToken.Type == Transaction {
			parser.lexer.NextToken() // consume TRANSACTION
		}
		return BeginStatement{}, nil
	case Commit:
		return CommitStatement{}, nil
	case Describe:
		return ParseDescribe(parser)
	case Show:
		return ParseShow(parser)
	case Use:
		return ParseUse(parser)
	case Exit:
		return ExitStatement{}, nil
	default:
		return nil, errors.New("unknown statement type")
	}
}

// splitTableName splits an optionally qualified table name into database
// and table parts.
func splitTableName(name string) (string, string, error) {
	parts := strings.Split(name, ".")
	switch len(parts) {
	case 1:
		return "", parts[0], nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", errors.New("expected table or database.table format")
	}
}

// parseTableRef reads a table reference plus an optional alias. It returns
// the token following the reference.
func parseTableRef(parser *Parser, token Token) (TableRef, Token, error) {
	var ref TableRef

	if token.Type != Identifier {
		return ref, token, errors.New("expected table name")
	}

	database, table, err := splitTableName(token.Value)
	if err != nil {
		return ref, token, err
	}
	ref.Database = database
	ref.Table = table

	token = parser.lexer.NextToken()
	if token.Type == As {
		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return ref, token, errors.New("expected alias after AS")
		}
		ref.Alias = token.Value
		token = parser.lexer.NextToken()
	} else if token.Type == Identifier {
		// Alias without AS keyword
		ref.Alias = token.Value
		token = parser.lexer.NextToken()
	}

	return ref, token, nil
}

func ParseSelect(parser *Parser) (Statement, error) {
	var selectStatement SelectStatement

	token := parser.lexer.NextToken()

	if token.Type == Wildcard {
		selectStatement.Columns = []string{}
		token = parser.lexer.NextToken()
	} else {
		// Parse select items: columns and aggregate calls, comma separated
		for {
			switch token.Type {
			case Identifier:
				selectStatement.Columns = append(selectStatement.Columns, token.Value)
				token = parser.lexer.NextToken()
			case Count, Sum, Avg, Min, Max:
				agg, countAll, err := parseAggregate(parser, token)
				if err != nil {
					return nil, err
				}
				if countAll {
					selectStatement.CountAll = true
				} else {
					selectStatement.Aggregates = append(selectStatement.Aggregates, agg)
				}
				token = parser.lexer.NextToken()
			default:
				return nil, errors.New("expected column name, *, COUNT, SUM, AVG, MIN, or MAX")
			}

			if token.Type == Comma {
				token = parser.lexer.NextToken()
				continue
			}
			break
		}
	}

	if token.Type != From {
		return nil, errors.New("expected FROM")
	}

	// Parse FROM list: one or more table references
	token = parser.lexer.NextToken()
	for {
		ref, next, err := parseTableRef(parser, token)
		if err != nil {
			return nil, err
		}
		selectStatement.Tables = append(selectStatement.Tables, ref)

		token = next
		if token.Type == Comma {
			token = parser.lexer.NextToken()
			continue
		}
		break
	}

	// Parse JOIN clauses
	for token.Type == Join || token.Type == Inner || token.Type == Left {
		joinClause := JoinClause{Type: "INNER"} // Default

		if token.Type == Left {
			joinClause.Type = "LEFT"
			token = parser.lexer.NextToken()
			if token.Type == Outer {
				token = parser.lexer.NextToken()
			}
			if token.Type != Join {
				return nil, errors.New("expected JOIN after LEFT")
			}
		} else if token.Type == Inner {
			token = parser.lexer.NextToken()
			if token.Type != Join {
				return nil, errors.New("expected JOIN after INNER")
			}
		}
		// token.Type == Join at this point

		token = parser.lexer.NextToken()
		ref, next, err := parseTableRef(parser, token)
		if err != nil {
			return nil, err
		}
		joinClause.Table = ref
		token = next

		// Parse ON condition
		if token.Type != On {
			return nil, errors.New("expected ON after JOIN table")
		}

		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected column after ON")
		}
		joinClause.LeftCol = token.Value

		token = parser.lexer.NextToken()
		if token.Type != Equals {
			return nil, errors.New("expected = in JOIN ON condition")
		}

		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected column after = in JOIN ON")
		}
		joinClause.RightCol = token.Value

		selectStatement.Joins = append(selectStatement.Joins, joinClause)
		token = parser.lexer.NextToken()
	}

	// Parse WHERE clause
	if token.Type == Where {
		whereClause, err := ParseWhere(parser)
		if err != nil {
			return nil, err
		}
		selectStatement.Where = whereClause
		token = parser.lexer.NextToken()
	}

	// Parse ORDER BY clause
	if token.Type == Order {
		token = parser.lexer.NextToken()
		if token.Type != By {
			return nil, errors.New("expected BY after ORDER")
		}
		for {
			token = parser.lexer.NextToken()
			if token.Type != Identifier {
				return nil, errors.New("expected column name in ORDER BY")
			}
			orderByClause := OrderByClause{Column: token.Value}

			// Check for ASC/DESC
			peek := parser.lexer.PeekToken()
			if peek.Type == Asc {
				parser.lexer.NextToken()
				orderByClause.Descending = false
			} else if peek.Type == Desc {
				parser.lexer.NextToken()
				orderByClause.Descending = true
			}

			selectStatement.OrderBy = append(selectStatement.OrderBy, orderByClause)

			peek = parser.lexer.PeekToken()
			if peek.Type == Comma {
				parser.lexer.NextToken() // consume comma
				continue
			}
			break
		}
		token = parser.lexer.NextToken()
	}

	// Parse LIMIT clause
	if token.Type == Limit {
		token = parser.lexer.NextToken()
		if token.Type != Int {
			return nil, errors.New("expected integer after LIMIT")
		}
		limit, err := strconv.Atoi(token.Value)
		if err != nil {
			return nil, err
		}
		selectStatement.Limit = limit
		token = parser.lexer.NextToken()
	}

	// Parse OFFSET clause
	if token.Type == Offset {
		token = parser.lexer.NextToken()
		if token.Type != Int {
			return nil, errors.New("expected integer after OFFSET")
		}
		offset, err := strconv.Atoi(token.Value)
		if err != nil {
			return nil, err
		}
		selectStatement.Offset = offset
	}

	return selectStatement, nil
}

// parseAggregate reads the remainder of an aggregate call whose function
// token has already been consumed. COUNT(*) is reported via the second
// return value.
func parseAggregate(parser *Parser, funcToken Token) (AggregateExpr, bool, error) {
	var agg AggregateExpr

	switch funcToken.Type {
	case Count:
		agg.Function = "COUNT"
	case Sum:
		agg.Function = "SUM"
	case Avg:
		agg.Function = "AVG"
	case Min:
		agg.Function = "MIN"
	case Max:
		agg.Function = "MAX"
	}

	token := parser.lexer.NextToken()
	if token.Type != ParenOpen {
		return agg, false, errors.New("expected '(' after " + agg.Function)
	}

	token = parser.lexer.NextToken()
	if token.Type == Wildcard {
		if agg.Function != "COUNT" {
			return agg, false, errors.New("'*' is only valid in COUNT()")
		}
		token = parser.lexer.NextToken()
		if token.Type != ParenClose {
			return agg, false, errors.New("expected ')' after COUNT(*")
		}
		return agg, true, nil
	}

	if token.Type != Identifier {
		return agg, false, errors.New("expected column name in " + agg.Function + "()")
	}
	agg.Column = token.Value

	token = parser.lexer.NextToken()
	if token.Type != ParenClose {
		return agg, false, errors.New("expected ')' after column name")
	}

	// Check for AS alias
	peek := parser.lexer.PeekToken()
	if peek.Type == As {
		parser.lexer.NextToken() // consume AS
		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return agg, false, errors.New("expected alias after AS")
		}
		agg.Alias = token.Value
	}

	return agg, false, nil
}

func ParseWhere(parser *Parser) (WhereClause, error) {
	var whereClause WhereClause

	for {
		token := parser.lexer.NextToken()
		if token.Type != Identifier {
			return whereClause, errors.New("expected identifier in WHERE clause")
		}
		left := token.Value

		token = parser.lexer.NextToken()

		var operator WhereOperator
		switch token.Type {
		case Equals:
			operator = EqualsOperator
		case NotEquals:
			operator = NotEqualsOperator
		case LessThan:
			operator = LessThanOperator
		case GreaterThan:
			operator = GreaterThanOperator
		case LessThanOrEqual:
			operator = LessThanOrEqualOperator
		case GreaterThanOrEqual:
			operator = GreaterThanOrEqualOperator
		default:
			return whereClause, errors.New("expected operator in WHERE clause")
		}

		token = parser.lexer.NextToken()
		condition := WhereCondition{
			Left:     left,
			Operator: operator,
			Right:    token.Value,
		}
		switch token.Type {
		case String, Int, Float:
		case Identifier:
			condition.RightIsColumn = true
		default:
			return whereClause, errors.New("expected value or column in WHERE clause")
		}

		whereClause.Conditions = append(whereClause.Conditions, condition)

		token = parser.lexer.PeekToken()
		if token.Type == And {
			parser.lexer.NextToken() // consume AND
			whereClause.LogicalOps = append(whereClause.LogicalOps, LogicalAnd)
			continue
		} else if token.Type == Or {
			parser.lexer.NextToken() // consume OR
			whereClause.LogicalOps = append(whereClause.LogicalOps, LogicalOr)
			continue
		} else {
			break
		}
	}

	return whereClause, nil
}

func ParseInsert(parser *Parser) (Statement, error) {
	var insertStatement InsertStatement

	// Parse INTO
	token := parser.lexer.NextToken()
	if token.Type != Into {
		return nil, errors.New("expected INTO after INSERT")
	}

	// Parse table name
	token = parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after INSERT INTO")
	}

	database, table, err := splitTableName(token.Value)
	if err != nil {
		return nil, err
	}
	insertStatement.Database = database
	insertStatement.Table = table

	// Parse optional column list
	token = parser.lexer.NextToken()
	if token.Type == ParenOpen {
		for {
			token = parser.lexer.NextToken()
			if token.Type != Identifier {
				return nil, errors.New("expected column name")
			}
			insertStatement.Columns = append(insertStatement.Columns, token.Value)

			token = parser.lexer.NextToken()
			if token.Type == Comma {
				continue
			} else if token.Type == ParenClose {
				break
			} else {
				return nil, errors.New("expected ',' or ')' in column list")
			}
		}
		token = parser.lexer.NextToken()
	}

	// Parse VALUES
	if token.Type != Values {
		return nil, errors.New("expected VALUES")
	}

	token = parser.lexer.NextToken()
	if token.Type != ParenOpen {
		return nil, errors.New("expected '(' after VALUES")
	}

	for {
		token = parser.lexer.NextToken()
		if token.Type != String && token.Type != Int && token.Type != Float {
			return nil, errors.New("expected value")
		}
		insertStatement.Values = append(insertStatement.Values, token.Value)

		token = parser.lexer.NextToken()
		if token.Type == Comma {
			continue
		} else if token.Type == ParenClose {
			break
		} else {
			return nil, errors.New("expected ',' or ')' in values list")
		}
	}

	return insertStatement, nil
}

func ParseUpdate(parser *Parser) (Statement, error) {
	var updateStatement UpdateStatement

	// Parse table name
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after UPDATE")
	}

	database, table, err := splitTableName(token.Value)
	if err != nil {
		return nil, err
	}
	updateStatement.Database = database
	updateStatement.Table = table

	// Parse SET clause
	token = parser.lexer.NextToken()
	if token.Type != Set {
		return nil, errors.New("expected SET after table name")
	}

	for {
		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected column name in SET clause")
		}
		column := token.Value

		token = parser.lexer.NextToken()
		if token.Type != Equals {
			return nil, errors.New("expected '=' in SET clause")
		}

		token = parser.lexer.NextToken()
		if token.Type != String && token.Type != Int && token.Type != Float {
			return nil, errors.New("expected value in SET clause")
		}
		value := token.Value

		updateStatement.Updates = append(updateStatement.Updates, SetClause{
			Column: column,
			Value:  value,
		})

		token = parser.lexer.PeekToken()
		if token.Type == Comma {
			parser.lexer.NextToken() // consume comma
			continue
		} else {
			break
		}
	}

	token = parser.lexer.NextToken()
	if token.Type == Where {
		whereClause, err := ParseWhere(parser)
		if err != nil {
			return nil, err
		}
		updateStatement.Where = whereClause
	}

	return updateStatement, nil
}

func ParseDelete(parser *Parser) (Statement, error) {
	var deleteStatement DeleteStatement

	// Parse FROM
	token := parser.lexer.NextToken()
	if token.Type != From {
		return nil, errors.New("expected FROM after DELETE")
	}

	// Parse table name
	token = parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after FROM")
	}

	database, table, err := splitTableName(token.Value)
	if err != nil {
		return nil, err
	}
	deleteStatement.Database = database
	deleteStatement.Table = table

	// Parse WHERE clause
	token = parser.lexer.NextToken()
	if token.Type == Where {
		whereClause, err := ParseWhere(parser)
		if err != nil {
			return nil, err
		}
		deleteStatement.Where = whereClause
	}

	return deleteStatement, nil
}

func ParseCreate(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case TableIdentifier:
		return ParseCreateTable(parser)
	case DatabaseIdentifier:
		return ParseCreateDatabase(parser)
	default:
		return nil, errors.New("expected TABLE or DATABASE after CREATE")
	}
}

func ParseCreateTable(parser *Parser) (Statement, error) {
	var createTableStatement CreateTableStatement

	// Parse table name
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after TABLE")
	}

	database, table, err := splitTableName(token.Value)
	if err != nil {
		return nil, err
	}
	createTableStatement.Database = database
	createTableStatement.Table = table

	// Parse columns
	token = parser.lexer.NextToken()
	if token.Type != ParenOpen {
		return nil, errors.New("expected '(' after table name")
	}

	for {
		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected column name")
		}
		columnName := token.Value

		column, err := parseColumnType(parser)
		if err != nil {
			return nil, err
		}
		column.Name = columnName

		createTableStatement.Columns = append(createTableStatement.Columns, column)

		token = parser.lexer.NextToken()
		if token.Type == Comma {
			continue
		} else if token.Type == ParenClose {
			break
		} else {
			return nil, errors.New("expected ',' or ')' in column list")
		}
	}

	return createTableStatement, nil
}

// parseColumnType reads a column type, including the (n) size suffix for
// varchar and char.
func parseColumnType(parser *Parser) (core.Column, error) {
	var column core.Column

	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return column, errors.New("expected column type")
	}

	switch toUpper(token.Value) {
	case "INT", "INTEGER":
		column.Type = core.IntType
	case "FLOAT", "DOUBLE", "REAL":
		column.Type = core.FloatType
	case "VARCHAR":
		column.Type = core.VarcharType
	case "CHAR":
		column.Type = core.CharType
	default:
		return column, errors.New("expected column type (INT, FLOAT, VARCHAR, CHAR)")
	}

	if column.Type == core.VarcharType || column.Type == core.CharType {
		token = parser.lexer.NextToken()
		if token.Type != ParenOpen {
			return column, errors.New("expected '(' after varchar/char")
		}
		token = parser.lexer.NextToken()
		if token.Type != Int {
			return column, errors.New("expected size in varchar/char declaration")
		}
		size, err := strconv.Atoi(token.Value)
		if err != nil {
			return column, err
		}
		column.Size = size
		token = parser.lexer.NextToken()
		if token.Type != ParenClose {
			return column, errors.New("expected ')' after varchar/char size")
		}
	}

	return column, nil
}

func ParseDrop(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case TableIdentifier:
		return ParseDropTable(parser)
	case DatabaseIdentifier:
		return ParseDropDatabase(parser)
	default:
		return nil, errors.New("expected TABLE or DATABASE after DROP")
	}
}

func ParseDropTable(parser *Parser) (Statement, error) {
	var dropTableStatement DropTableStatement

	// Parse table name
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after TABLE")
	}

	database, table, err := splitTableName(token.Value)
	if err != nil {
		return nil, err
	}
	dropTableStatement.Database = database
	dropTableStatement.Table = table

	return dropTableStatement, nil
}

func ParseCreateDatabase(parser *Parser) (Statement, error) {
	var createDatabaseStatement CreateDatabaseStatement

	// Parse database name
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected database name after DATABASE")
	}
	createDatabaseStatement.Database = token.Value

	return createDatabaseStatement, nil
}

func ParseDropDatabase(parser *Parser) (Statement, error) {
	var dropDatabaseStatement DropDatabaseStatement

	// Parse database name
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected database name after DATABASE")
	}
	dropDatabaseStatement.Database = token.Value

	return dropDatabaseStatement, nil
}

func ParseShow(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case DatabasesIdentifier:
		return ShowDatabasesStatement{}, nil
	case TablesIdentifier:
		// Optional database name; defaults to the session's current
		// database when omitted.
		token = parser.lexer.PeekToken()
		if token.Type == Identifier {
			parser.lexer.NextToken()
			return ShowTablesStatement{Database: token.Value}, nil
		}
		return ShowTablesStatement{}, nil
	default:
		return nil, errors.New("expected DATABASES or TABLES after SHOW")
	}
}

// ParseAlter parses ALTER TABLE <name> ADD <column> <type> statements
func ParseAlter(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	if token.Type != TableIdentifier {
		return nil, errors.New("expected TABLE after ALTER")
	}

	var statement AlterTableStatement

	// Parse table name
	token = parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name")
	}
	database, table, err := splitTableName(token.Value)
	if err != nil {
		return nil, err
	}
	statement.Database = database
	statement.Table = table

	token = parser.lexer.NextToken()
	if token.Type != Add {
		return nil, errors.New("expected ADD after table name")
	}

	token = parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected column name")
	}
	columnName := token.Value

	column, err := parseColumnType(parser)
	if err != nil {
		return nil, err
	}
	column.Name = columnName
	statement.Column = column

	return statement, nil
}

// ParseDescribe parses DESCRIBE table statements
func ParseDescribe(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after DESCRIBE")
	}

	database, table, err := splitTableName(token.Value)
	if err != nil {
		return nil, err
	}
	return DescribeStatement{Database: database, Table: table}, nil
}

// ParseUse parses USE database statements
func ParseUse(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected database name after USE")
	}
	return UseStatement{Database: token.Value}, nil
}

func parse(sql string) (Statement, error) {
	parser := NewParser(sql)

	return parser.Parse()
}

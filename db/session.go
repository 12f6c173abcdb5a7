package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vellumdb/VellumDB/core"
	"github.com/vellumdb/VellumDB/op"
	"github.com/vellumdb/VellumDB/ps"
	"github.com/vellumdb/VellumDB/sql"
)

// ErrSessionClosed is returned by Execute when the statement was EXIT.
// Callers running statement loops treat it as a clean shutdown.
var ErrSessionClosed = errors.New("session closed")

// Session parses and executes SQL statements against a persistence layer.
// It carries the current database set by USE and the open transaction
// between BEGIN and COMMIT.
type Session struct {
	*ps.Persistence
	Identity core.Identity

	database string
	txn      *ps.TransactionBuilder

	// Rows staged per database/table while a transaction is open, so
	// sequence-numbered row keys do not collide before the commit lands.
	staged        map[string]int
	stagedWrites  int
	stagedDeletes int
}

func NewSession(persistence *ps.Persistence, identity core.Identity) *Session {
	return &Session{
		Persistence: persistence,
		Identity:    identity,
	}
}

// CurrentDatabase returns the database selected by USE, or empty.
func (session *Session) CurrentDatabase() string {
	return session.database
}

func (session *Session) Execute(query string) (Result, error) {
	parser := sql.NewParser(query)
	statement, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	switch statement.Type() {
	case sql.SelectStatementType:
		return session.executeSelectStatement(statement.(sql.SelectStatement))
	case sql.InsertStatementType:
		return session.executeInsertStatement(statement.(sql.InsertStatement))
	case sql.UpdateStatementType:
		return session.executeUpdateStatement(statement.(sql.UpdateStatement))
	case sql.DeleteStatementType:
		return session.executeDeleteStatement(statement.(sql.DeleteStatement))
	case sql.CreateTableStatementType:
		return session.executeCreateTableStatement(statement.(sql.CreateTableStatement))
	case sql.DropTableStatementType:
		return session.executeDropTableStatement(statement.(sql.DropTableStatement))
	case sql.CreateDatabaseStatementType:
		return session.executeCreateDatabaseStatement(statement.(sql.CreateDatabaseStatement))
	case sql.DropDatabaseStatementType:
		return session.executeDropDatabaseStatement(statement.(sql.DropDatabaseStatement))
	case sql.AlterTableStatementType:
		return session.executeAlterTableStatement(statement.(sql.AlterTableStatement))
	case sql.BeginStatementType:
		return session.executeBeginStatement()
	case sql.CommitStatementType:
		return session.executeCommitStatement()
	case sql.DescribeStatementType:
		return session.executeDescribeStatement(statement.(sql.DescribeStatement))
	case sql.ShowDatabasesStatementType:
		return session.executeShowDatabasesStatement()
	case sql.ShowTablesStatementType:
		return session.executeShowTablesStatement(statement.(sql.ShowTablesStatement))
	case sql.UseStatementType:
		return session.executeUseStatement(statement.(sql.UseStatement))
	case sql.ExitStatementType:
		return nil, ErrSessionClosed
	default:
		return nil, fmt.Errorf("unsupported statement type: %v", statement.Type())
	}
}

// resolveDatabase applies the session's current database to unqualified
// table references.
func (session *Session) resolveDatabase(database string) (string, error) {
	if database != "" {
		return database, nil
	}
	if session.database == "" {
		return "", errors.New("no database selected")
	}
	return session.database, nil
}

func (session *Session) stagedRows(database, table string) int {
	return session.staged[database+"/"+table]
}

func (session *Session) stageRow(database, table string) {
	session.staged[database+"/"+table]++
}

func (session *Session) clearTransaction() {
	session.txn = nil
	session.staged = nil
	session.stagedWrites = 0
	session.stagedDeletes = 0
}

func (session *Session) executeInsertStatement(statement sql.InsertStatement) (CommitResult, error) {
	startTime := time.Now()

	database, err := session.resolveDatabase(statement.Database)
	if err != nil {
		return CommitResult{}, err
	}

	tableOp, err := op.GetTable(database, statement.Table, session.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	// Positional form maps values onto the schema in declaration order
	columns := statement.Columns
	if len(columns) == 0 {
		for _, column := range tableOp.Table.Columns {
			columns = append(columns, column.Name)
		}
	}

	if len(columns) != len(statement.Values) {
		return CommitResult{}, fmt.Errorf("expected %d values, got %d", len(columns), len(statement.Values))
	}

	row := make(map[string]string)
	for index, name := range columns {
		column := tableOp.Table.Column(name)
		if column == nil {
			return CommitResult{}, fmt.Errorf("unknown column %s in table %s.%s", name, database, statement.Table)
		}
		if err := column.ValidateValue(statement.Values[index]); err != nil {
			return CommitResult{}, err
		}
		row[name] = statement.Values[index]
	}

	jsonData, err := json.Marshal(row)
	if err != nil {
		return CommitResult{}, err
	}

	key := op.FormatRowKey(tableOp.NextSequence() + session.stagedRows(database, statement.Table))

	if session.txn != nil {
		if err := session.txn.AddWrite(database, statement.Table, key, jsonData); err != nil {
			return CommitResult{}, err
		}
		session.stageRow(database, statement.Table)
		session.stagedWrites++
		return CommitResult{
			RecordsWritten:   1,
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     1,
		}, nil
	}

	txn, err := tableOp.Put(key, jsonData, session.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		RecordsWritten:   1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (session *Session) executeUpdateStatement(statement sql.UpdateStatement) (CommitResult, error) {
	startTime := time.Now()
	opCount := 0

	database, err := session.resolveDatabase(statement.Database)
	if err != nil {
		return CommitResult{}, err
	}

	tableOp, err := op.GetTable(database, statement.Table, session.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	// Validate SET values once, before the scan
	for _, update := range statement.Updates {
		column := tableOp.Table.Column(update.Column)
		if column == nil {
			return CommitResult{}, fmt.Errorf("unknown column %s in table %s.%s", update.Column, database, statement.Table)
		}
		if err := column.ValidateValue(update.Value); err != nil {
			return CommitResult{}, err
		}
	}

	// Full scan; every row matching the WHERE clause is rewritten
	records := make(map[string][]byte)
	for key, rawData := range tableOp.Scan() {
		opCount++

		var row map[string]string
		if err := json.Unmarshal(rawData, &row); err != nil {
			return CommitResult{}, err
		}

		if !matchesWhereClause(row, statement.Where) {
			continue
		}

		for _, update := range statement.Updates {
			row[update.Column] = update.Value
		}

		newData, err := json.Marshal(row)
		if err != nil {
			return CommitResult{}, err
		}
		records[key] = newData
	}

	if len(records) == 0 {
		return CommitResult{
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     opCount,
		}, nil
	}

	if session.txn != nil {
		for key, data := range records {
			if err := session.txn.AddWrite(database, statement.Table, key, data); err != nil {
				return CommitResult{}, err
			}
		}
		session.stagedWrites += len(records)
		return CommitResult{
			RecordsWritten:   len(records),
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     opCount,
		}, nil
	}

	txn, err := tableOp.PutAll(records, session.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		RecordsWritten:   len(records),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     opCount,
	}, nil
}

func (session *Session) executeDeleteStatement(statement sql.DeleteStatement) (CommitResult, error) {
	startTime := time.Now()
	opCount := 0

	database, err := session.resolveDatabase(statement.Database)
	if err != nil {
		return CommitResult{}, err
	}

	tableOp, err := op.GetTable(database, statement.Table, session.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	// Full scan; collect matching keys first
	var keys []string
	for key, rawData := range tableOp.Scan() {
		opCount++

		var row map[string]string
		if err := json.Unmarshal(rawData, &row); err != nil {
			return CommitResult{}, err
		}

		if matchesWhereClause(row, statement.Where) {
			keys = append(keys, key)
		}
	}

	if len(keys) == 0 {
		return CommitResult{
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     opCount,
		}, nil
	}

	if session.txn != nil {
		for _, key := range keys {
			if err := session.txn.AddDelete(database, statement.Table, key); err != nil {
				return CommitResult{}, err
			}
		}
		session.stagedDeletes += len(keys)
		return CommitResult{
			RecordsDeleted:   len(keys),
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     opCount,
		}, nil
	}

	// Batch all deletes into one commit
	builder, err := session.Persistence.BeginTransaction()
	if err != nil {
		return CommitResult{}, err
	}
	for _, key := range keys {
		if err := builder.AddDelete(database, statement.Table, key); err != nil {
			builder.Rollback()
			return CommitResult{}, err
		}
	}
	txn, err := builder.Commit(session.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		RecordsDeleted:   len(keys),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     opCount,
	}, nil
}

func (session *Session) executeCreateTableStatement(statement sql.CreateTableStatement) (CommitResult, error) {
	startTime := time.Now()

	database, err := session.resolveDatabase(statement.Database)
	if err != nil {
		return CommitResult{}, err
	}

	txn, _, err := op.CreateTable(core.Table{
		Database: database,
		Name:     statement.Table,
		Columns:  statement.Columns,
	}, session.Persistence, session.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      *txn,
		TablesCreated:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (session *Session) executeDropTableStatement(statement sql.DropTableStatement) (CommitResult, error) {
	startTime := time.Now()

	database, err := session.resolveDatabase(statement.Database)
	if err != nil {
		return CommitResult{}, err
	}

	tableOp, err := op.GetTable(database, statement.Table, session.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	txn, err := tableOp.DropTable(session.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		TablesDeleted:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (session *Session) executeCreateDatabaseStatement(statement sql.CreateDatabaseStatement) (CommitResult, error) {
	startTime := time.Now()

	txn, _, err := op.CreateDatabase(core.Database{Name: statement.Database}, session.Persistence, session.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      *txn,
		DatabasesCreated: 1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (session *Session) executeDropDatabaseStatement(statement sql.DropDatabaseStatement) (CommitResult, error) {
	startTime := time.Now()

	databaseOp, err := op.GetDatabase(statement.Database, session.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	txn, err := databaseOp.DropDatabase(session.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	if session.database == statement.Database {
		session.database = ""
	}

	return CommitResult{
		Transaction:      txn,
		DatabasesDeleted: 1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (session *Session) executeAlterTableStatement(statement sql.AlterTableStatement) (CommitResult, error) {
	startTime := time.Now()

	database, err := session.resolveDatabase(statement.Database)
	if err != nil {
		return CommitResult{}, err
	}

	tableOp, err := op.GetTable(database, statement.Table, session.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	for _, column := range tableOp.Table.Columns {
		if column.Name == statement.Column.Name {
			return CommitResult{}, fmt.Errorf("column %s already exists", statement.Column.Name)
		}
	}

	txn, err := tableOp.AddColumn(statement.Column, session.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		TablesAltered:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (session *Session) executeBeginStatement() (CommitResult, error) {
	startTime := time.Now()

	if session.txn != nil {
		return CommitResult{}, errors.New("transaction already in progress")
	}

	builder, err := session.Persistence.BeginTransaction()
	if err != nil {
		return CommitResult{}, err
	}

	session.txn = builder
	session.staged = make(map[string]int)

	return CommitResult{
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (session *Session) executeCommitStatement() (CommitResult, error) {
	startTime := time.Now()

	// COMMIT with nothing staged aborts the transaction
	if session.txn == nil || session.txn.OperationCount() == 0 {
		if session.txn != nil {
			session.txn.Rollback()
		}
		session.clearTransaction()
		return CommitResult{
			Message:          "Transaction abort.",
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     1,
		}, nil
	}

	txn, err := session.txn.Commit(session.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	written := session.stagedWrites
	deleted := session.stagedDeletes
	session.clearTransaction()

	return CommitResult{
		Transaction:      txn,
		RecordsWritten:   written,
		RecordsDeleted:   deleted,
		Message:          "Transaction committed.",
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     written + deleted,
	}, nil
}

func (session *Session) executeUseStatement(statement sql.UseStatement) (CommitResult, error) {
	startTime := time.Now()

	_, err := session.Persistence.GetDatabase(statement.Database)
	if err != nil {
		return CommitResult{}, fmt.Errorf("database %s does not exist", statement.Database)
	}

	session.database = statement.Database

	return CommitResult{
		Message:          "Database changed",
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (session *Session) executeDescribeStatement(statement sql.DescribeStatement) (QueryResult, error) {
	startTime := time.Now()

	database, err := session.resolveDatabase(statement.Database)
	if err != nil {
		return QueryResult{}, err
	}

	tableOp, err := op.GetTable(database, statement.Table, session.Persistence)
	if err != nil {
		return QueryResult{}, err
	}

	var data [][]string
	for _, column := range tableOp.Table.Columns {
		data = append(data, []string{column.Name, column.TypeName()})
	}

	return QueryResult{
		Transaction:      session.Persistence.LatestTransaction(),
		Columns:          []string{"Column", "Type"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (session *Session) executeShowDatabasesStatement() (QueryResult, error) {
	startTime := time.Now()

	databases := session.Persistence.ListDatabases()

	data := make([][]string, len(databases))
	for i, database := range databases {
		data[i] = []string{database}
	}

	return QueryResult{
		Transaction:      session.Persistence.LatestTransaction(),
		Columns:          []string{"name"},
		Data:             data,
		RecordsRead:      len(databases),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(databases),
	}, nil
}

func (session *Session) executeShowTablesStatement(statement sql.ShowTablesStatement) (QueryResult, error) {
	startTime := time.Now()

	database, err := session.resolveDatabase(statement.Database)
	if err != nil {
		return QueryResult{}, err
	}

	tables := session.Persistence.ListTables(database)

	data := make([][]string, len(tables))
	for i, table := range tables {
		data[i] = []string{table}
	}

	return QueryResult{
		Transaction:      session.Persistence.LatestTransaction(),
		Columns:          []string{"name"},
		Data:             data,
		RecordsRead:      len(tables),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(tables),
	}, nil
}

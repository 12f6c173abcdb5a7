package db

import (
	"testing"

	"github.com/vellumdb/VellumDB/core"
	"github.com/vellumdb/VellumDB/ps"
)

func setupTestSession(t *testing.T) *Session {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "test", Email: "test@test.com"}
	session := NewSession(&persistence, identity)

	mustExecute(t, session, "CREATE DATABASE testdb")
	mustExecute(t, session, "USE testdb")
	mustExecute(t, session, "CREATE TABLE users (id int, name varchar(32), age int)")

	return session
}

func mustExecute(t *testing.T, session *Session, query string) Result {
	t.Helper()
	result, err := session.Execute(query)
	if err != nil {
		t.Fatalf("Failed to execute %q: %v", query, err)
	}
	return result
}

func insertTestData(t *testing.T, session *Session) {
	mustExecute(t, session, "INSERT INTO users VALUES (1, 'Alice', 30)")
	mustExecute(t, session, "INSERT INTO users VALUES (2, 'Bob', 25)")
	mustExecute(t, session, "INSERT INTO users VALUES (3, 'Charlie', 35)")
}

func TestSessionSelect(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "SELECT * FROM users")

	qr := result.(QueryResult)
	if qr.RecordsRead != 3 {
		t.Errorf("Expected 3 records, got %d", qr.RecordsRead)
	}
	if len(qr.Columns) != 3 || qr.Columns[0] != "id" || qr.Columns[1] != "name" || qr.Columns[2] != "age" {
		t.Errorf("Unexpected columns: %v", qr.Columns)
	}
}

func TestSessionSelectWithWhere(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "SELECT * FROM users WHERE age > 28")

	qr := result.(QueryResult)
	if qr.RecordsRead != 2 {
		t.Errorf("Expected 2 records with age > 28, got %d", qr.RecordsRead)
	}
}

func TestSessionSelectWhereOr(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "SELECT name FROM users WHERE name = 'Alice' OR age >= 35")

	qr := result.(QueryResult)
	if qr.RecordsRead != 2 {
		t.Errorf("Expected 2 records, got %d", qr.RecordsRead)
	}
}

func TestSessionSelectWhereAndOrPrecedence(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	// AND binds tighter than OR: Bob OR (Alice AND age > 28)
	result := mustExecute(t, session, "SELECT name FROM users WHERE name = 'Bob' OR name = 'Alice' AND age > 28")

	qr := result.(QueryResult)
	if qr.RecordsRead != 2 {
		t.Errorf("Expected 2 records, got %d", qr.RecordsRead)
	}
}

func TestSessionNegativeValues(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	mustExecute(t, session, "INSERT INTO users VALUES (4, 'Debt', -5)")

	result := mustExecute(t, session, "SELECT name FROM users WHERE age < 0")
	qr := result.(QueryResult)
	if len(qr.Data) != 1 || qr.Data[0][0] != "Debt" {
		t.Errorf("Expected the negative-age row, got %+v", qr.Data)
	}

	mustExecute(t, session, "UPDATE users SET age = -10 WHERE id = 4")
	result = mustExecute(t, session, "SELECT age FROM users WHERE id = 4")
	qr = result.(QueryResult)
	if len(qr.Data) != 1 || qr.Data[0][0] != "-10" {
		t.Errorf("Expected age -10 after update, got %+v", qr.Data)
	}
}

func TestSessionSelectOrderBy(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "SELECT * FROM users ORDER BY age DESC")

	qr := result.(QueryResult)
	if len(qr.Data) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(qr.Data))
	}
	if qr.Data[0][1] != "Charlie" {
		t.Errorf("Expected Charlie first with ORDER BY age DESC, got %s", qr.Data[0][1])
	}
	if qr.Data[2][1] != "Bob" {
		t.Errorf("Expected Bob last with ORDER BY age DESC, got %s", qr.Data[2][1])
	}
}

func TestSessionSelectLimitOffset(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "SELECT * FROM users ORDER BY id LIMIT 2 OFFSET 1")

	qr := result.(QueryResult)
	if len(qr.Data) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(qr.Data))
	}
	if qr.Data[0][0] != "2" {
		t.Errorf("Expected first row id 2 after OFFSET 1, got %s", qr.Data[0][0])
	}
}

func TestSessionCountAll(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "SELECT COUNT(*) FROM users")

	qr := result.(QueryResult)
	if len(qr.Data) != 1 || len(qr.Data[0]) != 1 {
		t.Fatal("Expected single count result")
	}
	if qr.Data[0][0] != "3" {
		t.Errorf("Expected count of 3, got %s", qr.Data[0][0])
	}
}

func TestSessionAggregates(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "SELECT SUM(age), AVG(age) AS avg_age, MIN(age), MAX(age) FROM users")

	qr := result.(QueryResult)
	if len(qr.Data) != 1 {
		t.Fatalf("Expected 1 aggregate row, got %d", len(qr.Data))
	}
	row := qr.Data[0]
	if row[0] != "90" {
		t.Errorf("Expected SUM(age) 90, got %s", row[0])
	}
	if row[1] != "30.00" {
		t.Errorf("Expected AVG(age) 30.00, got %s", row[1])
	}
	if row[2] != "25" {
		t.Errorf("Expected MIN(age) 25, got %s", row[2])
	}
	if row[3] != "35" {
		t.Errorf("Expected MAX(age) 35, got %s", row[3])
	}
	if qr.Columns[1] != "avg_age" {
		t.Errorf("Expected alias avg_age, got %s", qr.Columns[1])
	}
}

func TestSessionAggregatesEmptyResult(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "SELECT COUNT(age), SUM(age), MIN(age), MAX(age) FROM users WHERE age > 100")

	qr := result.(QueryResult)
	if len(qr.Data) != 1 {
		t.Fatalf("Expected 1 aggregate row, got %d", len(qr.Data))
	}
	row := qr.Data[0]
	if row[0] != "0" {
		t.Errorf("Expected COUNT 0 over empty set, got %s", row[0])
	}
	if row[1] != "0" {
		t.Errorf("Expected SUM 0 over empty set, got %s", row[1])
	}
	if row[2] != "" {
		t.Errorf("Expected empty MIN over empty set, got %s", row[2])
	}
	if row[3] != "" {
		t.Errorf("Expected empty MAX over empty set, got %s", row[3])
	}
}

func TestSessionInsertColumnList(t *testing.T) {
	session := setupTestSession(t)

	mustExecute(t, session, "INSERT INTO users (name, id, age) VALUES ('Dana', 7, 41)")

	result := mustExecute(t, session, "SELECT id, name, age FROM users")
	qr := result.(QueryResult)
	if len(qr.Data) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(qr.Data))
	}
	if qr.Data[0][0] != "7" || qr.Data[0][1] != "Dana" || qr.Data[0][2] != "41" {
		t.Errorf("Unexpected row: %v", qr.Data[0])
	}
}

func TestSessionInsertArityMismatch(t *testing.T) {
	session := setupTestSession(t)

	_, err := session.Execute("INSERT INTO users VALUES (1, 'Alice')")
	if err == nil {
		t.Error("Expected error for too few values")
	}
}

func TestSessionInsertValidation(t *testing.T) {
	session := setupTestSession(t)

	_, err := session.Execute("INSERT INTO users VALUES ('abc', 'Alice', 30)")
	if err == nil {
		t.Error("Expected error for non-integer id")
	}

	_, err = session.Execute("INSERT INTO users VALUES (1, 'this name is much longer than thirty-two characters', 30)")
	if err == nil {
		t.Error("Expected error for varchar value exceeding size")
	}
}

func TestSessionUpdateFullScan(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	// Non-key predicate matching two rows
	result := mustExecute(t, session, "UPDATE users SET age = 40 WHERE age > 28")

	cr := result.(CommitResult)
	if cr.RecordsWritten != 2 {
		t.Errorf("Expected 2 records written, got %d", cr.RecordsWritten)
	}

	check := mustExecute(t, session, "SELECT COUNT(*) FROM users WHERE age = 40")
	qr := check.(QueryResult)
	if qr.Data[0][0] != "2" {
		t.Errorf("Expected 2 rows with age 40, got %s", qr.Data[0][0])
	}
}

func TestSessionDeleteFullScan(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "DELETE FROM users WHERE name != 'Bob'")

	cr := result.(CommitResult)
	if cr.RecordsDeleted != 2 {
		t.Errorf("Expected 2 records deleted, got %d", cr.RecordsDeleted)
	}

	check := mustExecute(t, session, "SELECT name FROM users")
	qr := check.(QueryResult)
	if qr.RecordsRead != 1 || qr.Data[0][0] != "Bob" {
		t.Errorf("Expected only Bob to remain, got %v", qr.Data)
	}
}

func TestSessionImplicitJoin(t *testing.T) {
	session := setupTestSession(t)

	mustExecute(t, session, "CREATE TABLE carrier (cid int, cname varchar(32))")
	mustExecute(t, session, "CREATE TABLE flight (fid int, carrier_id int)")
	mustExecute(t, session, "INSERT INTO carrier VALUES (1, 'Alpha Air')")
	mustExecute(t, session, "INSERT INTO carrier VALUES (2, 'Beta Jet')")
	mustExecute(t, session, "INSERT INTO flight VALUES (10, 1)")
	mustExecute(t, session, "INSERT INTO flight VALUES (11, 1)")
	mustExecute(t, session, "INSERT INTO flight VALUES (12, 2)")

	result := mustExecute(t, session, "SELECT fid, cname FROM flight f, carrier c WHERE f.carrier_id = c.cid")

	qr := result.(QueryResult)
	if qr.RecordsRead != 3 {
		t.Fatalf("Expected 3 joined rows, got %d", qr.RecordsRead)
	}
	for _, row := range qr.Data {
		if row[0] == "12" && row[1] != "Beta Jet" {
			t.Errorf("Expected flight 12 joined to Beta Jet, got %s", row[1])
		}
	}
}

func TestSessionImplicitJoinWithFilter(t *testing.T) {
	session := setupTestSession(t)

	mustExecute(t, session, "CREATE TABLE carrier (cid int, cname varchar(32))")
	mustExecute(t, session, "CREATE TABLE flight (fid int, carrier_id int)")
	mustExecute(t, session, "INSERT INTO carrier VALUES (1, 'Alpha Air')")
	mustExecute(t, session, "INSERT INTO carrier VALUES (2, 'Beta Jet')")
	mustExecute(t, session, "INSERT INTO flight VALUES (10, 1)")
	mustExecute(t, session, "INSERT INTO flight VALUES (12, 2)")

	result := mustExecute(t, session, "SELECT cname FROM flight f, carrier c WHERE f.carrier_id = c.cid AND cname = 'Beta Jet'")

	qr := result.(QueryResult)
	if qr.RecordsRead != 1 || qr.Data[0][0] != "Beta Jet" {
		t.Errorf("Expected single Beta Jet row, got %v", qr.Data)
	}
}

func TestSessionInnerJoin(t *testing.T) {
	session := setupTestSession(t)

	mustExecute(t, session, "CREATE TABLE carrier (cid int, cname varchar(32))")
	mustExecute(t, session, "CREATE TABLE flight (fid int, carrier_id int)")
	mustExecute(t, session, "INSERT INTO carrier VALUES (1, 'Alpha Air')")
	mustExecute(t, session, "INSERT INTO flight VALUES (10, 1)")
	mustExecute(t, session, "INSERT INTO flight VALUES (11, 9)")

	result := mustExecute(t, session, "SELECT * FROM flight INNER JOIN carrier ON carrier_id = cid")

	qr := result.(QueryResult)
	if qr.RecordsRead != 1 {
		t.Errorf("Expected 1 matched row, got %d", qr.RecordsRead)
	}
}

func TestSessionLeftOuterJoin(t *testing.T) {
	session := setupTestSession(t)

	mustExecute(t, session, "CREATE TABLE carrier (cid int, cname varchar(32))")
	mustExecute(t, session, "CREATE TABLE flight (fid int, carrier_id int)")
	mustExecute(t, session, "INSERT INTO carrier VALUES (1, 'Alpha Air')")
	mustExecute(t, session, "INSERT INTO carrier VALUES (2, 'Beta Jet')")
	mustExecute(t, session, "INSERT INTO flight VALUES (10, 1)")

	result := mustExecute(t, session, "SELECT cname, fid FROM carrier LEFT OUTER JOIN flight ON cid = carrier_id ORDER BY cname")

	qr := result.(QueryResult)
	if qr.RecordsRead != 2 {
		t.Fatalf("Expected 2 rows, got %d", qr.RecordsRead)
	}
	// Beta Jet has no flights; its fid reads as empty
	if qr.Data[1][0] != "Beta Jet" || qr.Data[1][1] != "" {
		t.Errorf("Expected unmatched Beta Jet row padded with empty, got %v", qr.Data[1])
	}
}

func TestSessionTransactionStaging(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	mustExecute(t, session, "BEGIN TRANSACTION")
	mustExecute(t, session, "INSERT INTO users VALUES (4, 'Dana', 28)")
	mustExecute(t, session, "INSERT INTO users VALUES (5, 'Eve', 22)")

	// Reads observe the last committed state
	check := mustExecute(t, session, "SELECT COUNT(*) FROM users")
	if check.(QueryResult).Data[0][0] != "3" {
		t.Errorf("Expected staged rows to be invisible before COMMIT")
	}

	result := mustExecute(t, session, "COMMIT")
	cr := result.(CommitResult)
	if cr.Message != "Transaction committed." {
		t.Errorf("Expected 'Transaction committed.', got %q", cr.Message)
	}
	if cr.RecordsWritten != 2 {
		t.Errorf("Expected 2 records written in transaction, got %d", cr.RecordsWritten)
	}

	check = mustExecute(t, session, "SELECT COUNT(*) FROM users")
	if check.(QueryResult).Data[0][0] != "5" {
		t.Errorf("Expected 5 rows after COMMIT, got %s", check.(QueryResult).Data[0][0])
	}
}

func TestSessionEmptyCommitAborts(t *testing.T) {
	session := setupTestSession(t)

	mustExecute(t, session, "BEGIN")
	result := mustExecute(t, session, "COMMIT")
	cr := result.(CommitResult)
	if cr.Message != "Transaction abort." {
		t.Errorf("Expected 'Transaction abort.', got %q", cr.Message)
	}

	// COMMIT without BEGIN aborts too
	result = mustExecute(t, session, "COMMIT")
	if result.(CommitResult).Message != "Transaction abort." {
		t.Errorf("Expected 'Transaction abort.' without open transaction")
	}
}

func TestSessionUseUnknownDatabase(t *testing.T) {
	session := setupTestSession(t)

	_, err := session.Execute("USE nosuchdb")
	if err == nil {
		t.Error("Expected error for USE of unknown database")
	}
	if session.CurrentDatabase() != "testdb" {
		t.Errorf("Expected current database to stay testdb, got %s", session.CurrentDatabase())
	}
}

func TestSessionNoDatabaseSelected(t *testing.T) {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	session := NewSession(&persistence, core.Identity{Name: "test", Email: "test@test.com"})

	_, err = session.Execute("SELECT * FROM users")
	if err == nil {
		t.Error("Expected error when no database is selected")
	}
}

func TestSessionQualifiedNames(t *testing.T) {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	session := NewSession(&persistence, core.Identity{Name: "test", Email: "test@test.com"})

	// Fully qualified names work without USE
	mustExecute(t, session, "CREATE DATABASE qdb")
	mustExecute(t, session, "CREATE TABLE qdb.items (id int)")
	mustExecute(t, session, "INSERT INTO qdb.items VALUES (1)")

	result := mustExecute(t, session, "SELECT * FROM qdb.items")
	if result.(QueryResult).RecordsRead != 1 {
		t.Error("Expected 1 record via qualified name")
	}
}

func TestSessionShowDatabases(t *testing.T) {
	session := setupTestSession(t)

	result := mustExecute(t, session, "SHOW DATABASES")

	qr := result.(QueryResult)
	if qr.RecordsRead < 1 {
		t.Error("Expected at least 1 database")
	}
}

func TestSessionShowTables(t *testing.T) {
	session := setupTestSession(t)

	result := mustExecute(t, session, "SHOW TABLES")

	qr := result.(QueryResult)
	if qr.RecordsRead != 1 || qr.Data[0][0] != "users" {
		t.Errorf("Expected users table, got %v", qr.Data)
	}
}

func TestSessionDescribe(t *testing.T) {
	session := setupTestSession(t)

	result := mustExecute(t, session, "DESCRIBE users")

	qr := result.(QueryResult)
	if qr.RecordsRead != 3 {
		t.Fatalf("Expected 3 columns in DESCRIBE, got %d", qr.RecordsRead)
	}
	if qr.Data[1][0] != "name" || qr.Data[1][1] != "varchar(32)" {
		t.Errorf("Unexpected DESCRIBE row: %v", qr.Data[1])
	}
}

func TestSessionAlterTableAdd(t *testing.T) {
	session := setupTestSession(t)
	insertTestData(t, session)

	result := mustExecute(t, session, "ALTER TABLE users ADD email varchar(64)")
	if result.(CommitResult).TablesAltered != 1 {
		t.Error("Expected 1 table altered")
	}

	check := mustExecute(t, session, "DESCRIBE users")
	if check.(QueryResult).RecordsRead != 4 {
		t.Errorf("Expected 4 columns after ALTER, got %d", check.(QueryResult).RecordsRead)
	}

	// Existing rows read the new column as empty
	rows := mustExecute(t, session, "SELECT email FROM users")
	qr := rows.(QueryResult)
	if qr.RecordsRead != 3 || qr.Data[0][0] != "" {
		t.Errorf("Expected empty email for existing rows, got %v", qr.Data)
	}

	_, err := session.Execute("ALTER TABLE users ADD email varchar(64)")
	if err == nil {
		t.Error("Expected error adding duplicate column")
	}
}

func TestSessionDropTable(t *testing.T) {
	session := setupTestSession(t)

	mustExecute(t, session, "DROP TABLE users")

	_, err := session.Execute("SELECT * FROM users")
	if err == nil {
		t.Error("Expected error selecting from dropped table")
	}
}

func TestSessionDropDatabaseClearsCurrent(t *testing.T) {
	session := setupTestSession(t)

	mustExecute(t, session, "DROP DATABASE testdb")

	if session.CurrentDatabase() != "" {
		t.Error("Expected current database cleared after DROP DATABASE")
	}
}

func TestSessionExit(t *testing.T) {
	session := setupTestSession(t)

	_, err := session.Execute("EXIT")
	if err != ErrSessionClosed {
		t.Errorf("Expected ErrSessionClosed, got %v", err)
	}
}

// Package db provides the SQL execution engine for VellumDB.
//
// The Session type is the main entry point for executing SQL statements.
// It parses SQL, executes queries, and returns results. A session tracks
// the current database set by USE and the open transaction between BEGIN
// and COMMIT.
//
// # Session Usage
//
//	session := db.NewSession(persistence, identity)
//	session.Execute("USE mydb")
//	result, err := session.Execute("SELECT * FROM users")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Display()
//
// # Result Types
//
// There are two result types:
//   - QueryResult: Returned by SELECT, SHOW, and DESCRIBE statements
//   - CommitResult: Returned by INSERT, UPDATE, DELETE, CREATE, DROP,
//     ALTER, USE, BEGIN, and COMMIT
//
// QueryResult contains columns, data rows, and execution metrics.
// CommitResult contains counts of affected objects and the transaction ID.
//
// # Transactions
//
// Between BEGIN and COMMIT, INSERT, UPDATE, and DELETE stage their writes
// into a single pending commit; reads observe the last committed state.
// COMMIT with nothing staged reports "Transaction abort.".
//
// Execute returns ErrSessionClosed for EXIT; statement loops treat it as
// a clean shutdown.
package db

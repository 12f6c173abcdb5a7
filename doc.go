// Package VellumDB provides a Git-backed SQL database engine.
//
// VellumDB stores data using Git as the underlying storage mechanism,
// making every mutating statement a Git commit. This provides built-in
// version control, history tracking, and the ability to restore to any
// point in time.
//
// # Quick Start
//
// Create an in-memory database:
//
//	persistence, _ := ps.NewMemoryPersistence()
//	instance := VellumDB.Open(&persistence)
//	session := instance.Session(core.Identity{Name: "App", Email: "app@example.com"})
//
//	session.Execute("CREATE DATABASE mydb")
//	session.Execute("USE mydb")
//	session.Execute("CREATE TABLE users (id int, name varchar(32))")
//	session.Execute("INSERT INTO users VALUES (1, 'Alice')")
//
//	result, _ := session.Execute("SELECT * FROM users")
//	result.Display()
//
// # Supported SQL
//
// VellumDB supports a subset of SQL including:
//   - CREATE/DROP DATABASE, USE
//   - CREATE/DROP TABLE, ALTER TABLE ADD
//   - INSERT, SELECT, UPDATE, DELETE
//   - Column types: int, float, varchar(n), char(n)
//   - WHERE with comparison operators, AND/OR, column = column predicates
//   - Joins: comma-separated FROM lists, INNER JOIN, LEFT OUTER JOIN
//   - ORDER BY, LIMIT, OFFSET
//   - Aggregate functions: COUNT, SUM, AVG, MIN, MAX
//   - Transactions: BEGIN TRANSACTION, COMMIT
//   - SHOW DATABASES, SHOW TABLES, DESCRIBE
package VellumDB

// Package sql provides SQL lexing and parsing for VellumDB.
//
// The package includes a lexer that tokenizes SQL strings and a parser
// that produces abstract syntax trees for SQL statements.
//
// # Lexer Usage
//
//	lexer := sql.NewLexer("SELECT * FROM users")
//	for {
//	    token := lexer.NextToken()
//	    if token.Type == sql.EOF {
//	        break
//	    }
//	    fmt.Printf("Token: %s = %s\n", token.Type, token.Value)
//	}
//
// # Parser Usage
//
//	parser := sql.NewParser("SELECT * FROM users WHERE id = 1")
//	statement, err := parser.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Table names may be written bare or qualified as database.table; bare
// names are resolved by the session against the current database (USE).
//
// # Supported Statements
//
// The parser supports the following statement types:
//   - SelectStatement (implicit comma joins, INNER/LEFT OUTER JOIN,
//     aggregates, ORDER BY, LIMIT/OFFSET)
//   - InsertStatement
//   - UpdateStatement
//   - DeleteStatement
//   - CreateTableStatement, DropTableStatement, AlterTableStatement
//   - CreateDatabaseStatement, DropDatabaseStatement
//   - BeginStatement, CommitStatement
//   - DescribeStatement
//   - ShowDatabasesStatement, ShowTablesStatement
//   - UseStatement, ExitStatement
package sql

// Package core provides core types used throughout VellumDB.
//
// The package defines fundamental types like Identity, Database, Table,
// Column, and associated type constants.
//
// # Identity
//
// Identity identifies the author of transactions (Git commit author):
//
//	identity := core.Identity{
//	    Name:  "John Doe",
//	    Email: "john@example.com",
//	}
//
// # Column Types
//
// Supported column types:
//   - IntType: Integers
//   - FloatType: Floating point numbers
//   - VarcharType: Variable-length strings with a declared maximum
//   - CharType: Fixed-length strings
//
// # Table Definition
//
//	table := core.Table{
//	    Database: "mydb",
//	    Name:     "users",
//	    Columns: []core.Column{
//	        {Name: "id", Type: core.IntType},
//	        {Name: "name", Type: core.VarcharType, Size: 32},
//	    },
//	}
package core

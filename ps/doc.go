// Package ps provides the persistence layer for VellumDB.
//
// The persistence layer is backed by Git, using go-git for storage.
// Every write operation creates a Git commit, providing full version
// control and history tracking.
//
// # Memory Persistence
//
// For testing or ephemeral databases:
//
//	persistence, err := ps.NewMemoryPersistence()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # File Persistence
//
// For persistent storage:
//
//	persistence, err := ps.NewFilePersistence("/path/to/data", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Transaction Batching
//
// For improved write performance, use TransactionBuilder:
//
//	txn, _ := persistence.BeginTransaction()
//	txn.AddWrite("db", "table", "key1", data1)
//	txn.AddWrite("db", "table", "key2", data2)
//	result, _ := txn.Commit(identity)
//
// # Archiving
//
// The committed state can be exported to an S3 bucket:
//
//	client, _ := ps.NewS3Client(ctx, "us-east-1", "", "", "")
//	archiver := ps.NewArchiver(&persistence, client, "my-bucket")
//	manifest, _ := archiver.Export(ctx, "backups/2026-08-23")
package ps

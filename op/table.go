package op

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/vellumdb/VellumDB/core"
	"github.com/vellumdb/VellumDB/ps"
)

type TableOp struct {
	Table       core.Table
	Persistence *ps.Persistence
}

func CreateTable(table core.Table, persistence *ps.Persistence, identity core.Identity) (*ps.Transaction, *TableOp, error) {
	txn, err := persistence.CreateTable(table, identity)
	if err != nil {
		return nil, nil, err
	}

	return &txn, &TableOp{
		Table:       table,
		Persistence: persistence,
	}, nil
}

func GetTable(database string, tableName string, persistence *ps.Persistence) (*TableOp, error) {
	table, err := persistence.GetTable(database, tableName)

	if err != nil {
		return nil, err
	}

	return &TableOp{
		Table:       *table,
		Persistence: persistence,
	}, nil
}

func (op *TableOp) DropTable(identity core.Identity) (txn ps.Transaction, err error) {
	return op.Persistence.DropTable(op.Table.Database, op.Table.Name, identity)
}

// AddColumn appends a column to the table schema. Existing rows read the
// new column as empty.
func (op *TableOp) AddColumn(column core.Column, identity core.Identity) (txn ps.Transaction, err error) {
	op.Table.Columns = append(op.Table.Columns, column)
	message := fmt.Sprintf("Adding column %s", column.Name)
	return op.Persistence.UpdateTable(op.Table, identity, message)
}

func (op *TableOp) Get(key string) (value []byte, exists bool) {
	value, exists = op.Persistence.GetRecord(op.Table.Database, op.Table.Name, key)
	return
}

func (op *TableOp) Put(key string, value []byte, identity core.Identity) (txn ps.Transaction, err error) {
	records := map[string][]byte{
		key: value,
	}
	return op.PutAll(records, identity)
}

func (op *TableOp) PutAll(records map[string][]byte, identity core.Identity) (txn ps.Transaction, err error) {
	return op.Persistence.SaveRecord(op.Table.Database, op.Table.Name, records, identity)
}

func (op *TableOp) Delete(key string, identity core.Identity) (txn ps.Transaction, err error) {
	return op.Persistence.DeleteRecord(op.Table.Database, op.Table.Name, key, identity)
}

func (op *TableOp) Count() int {
	return len(op.Keys())
}

func (op *TableOp) Keys() []string {
	return op.Persistence.ListRecordKeys(op.Table.Database, op.Table.Name)
}

// NextSequence returns the next row sequence number, one past the highest
// numeric key currently stored.
func (op *TableOp) NextSequence() int {
	next := 0
	for _, key := range op.Keys() {
		seq, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if seq >= next {
			next = seq + 1
		}
	}
	return next
}

// FormatRowKey renders a sequence number as a zero-padded row key so Git
// tree order matches insertion order.
func FormatRowKey(seq int) string {
	return fmt.Sprintf("%010d", seq)
}

func (op *TableOp) Scan() iter.Seq2[string, []byte] {
	return op.Persistence.Scan(op.Table.Database, op.Table.Name, nil)
}

func (op *TableOp) ScanWithFilter(filterExpr func(key string, value []byte) bool) iter.Seq2[string, []byte] {
	return op.Persistence.Scan(op.Table.Database, op.Table.Name, &filterExpr)
}

func (op *TableOp) Restore(asof ps.Transaction) error {
	return op.Persistence.Restore(asof, &op.Table.Database, &op.Table.Name)
}

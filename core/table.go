package core

import (
	"fmt"
	"strconv"
)

type ColumnType int

const (
	IntType ColumnType = iota
	FloatType
	VarcharType
	CharType
)

// Identity identifies the author recorded on each transaction.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Database struct {
	Name string `json:"name"`
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
	// Size is the declared length for varchar/char columns, 0 otherwise.
	Size int `json:"size,omitempty"`
}

type Table struct {
	Database string   `json:"database"`
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
}

// TypeName renders the column type the way it appears in DDL.
func (column Column) TypeName() string {
	switch column.Type {
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case VarcharType:
		return fmt.Sprintf("varchar(%d)", column.Size)
	case CharType:
		return fmt.Sprintf("char(%d)", column.Size)
	default:
		return "unknown"
	}
}

// ValidateValue checks a literal against the column's declared type.
func (column Column) ValidateValue(value string) error {
	switch column.Type {
	case IntType:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("value '%s' is not a valid int for column %s", value, column.Name)
		}
	case FloatType:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("value '%s' is not a valid float for column %s", value, column.Name)
		}
	case VarcharType, CharType:
		if column.Size > 0 && len(value) > column.Size {
			return fmt.Errorf("value '%s' exceeds %s for column %s", value, column.TypeName(), column.Name)
		}
	}

	return nil
}

// Column returns the column definition by name, or nil when absent.
func (table Table) Column(name string) *Column {
	for i := range table.Columns {
		if table.Columns[i].Name == name {
			return &table.Columns[i]
		}
	}

	return nil
}

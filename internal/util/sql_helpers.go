package util

import (
	"database/sql"
	"strings"
)

// StringToNullString converts a string to sql.NullString.
// An empty string is treated as NULL.
func StringToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// NullStringToString unwraps a sql.NullString, returning "" for NULL.
func NullStringToString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

// IsUniqueViolation reports whether the error is an Oracle unique
// constraint violation (ORA-00001).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "ORA-00001")
}

// IsForeignKeyViolation reports whether the error is an Oracle integrity
// constraint violation on a parent key (ORA-02291) or child records
// found (ORA-02292).
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "ORA-02291") ||
		strings.Contains(err.Error(), "ORA-02292")
}

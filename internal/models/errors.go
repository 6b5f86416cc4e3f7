package models

import (
	"errors"
	"fmt"
)

// Error codes carried by the typed error structs.
const (
	ErrCodeAdapter = "ADAPTER_ERROR"
	ErrCodeScan    = "SCAN_ERROR"
	ErrCodeCatalog = "CATALOG_ERROR"
)

// Sentinel errors
var (
	ErrGameNotFound    = errors.New("unified game not found")
	ErrSourceNotFound  = errors.New("game source not found")
	ErrCatalogEmpty    = errors.New("metadata catalog is not populated")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrScanRootMissing = errors.New("scan root does not exist")
)

// AdapterError wraps a failure from a storage adapter.
type AdapterError struct {
	Op   string
	Path string
	Err  error
}

func (e *AdapterError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("adapter %s [%s] %s: %v", e.Op, ErrCodeAdapter, e.Path, e.Err)
	}
	return fmt.Sprintf("adapter %s [%s]: %v", e.Op, ErrCodeAdapter, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// CatalogError wraps a failure from the metadata catalog.
type CatalogError struct {
	Op  string
	Err error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog %s [%s]: %v", e.Op, ErrCodeCatalog, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

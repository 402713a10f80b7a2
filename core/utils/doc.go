// Package utils provides common utility functions for the esim-catalog application.
// It includes loose type conversion helpers and the value comparison used by change
// detection, where stored values come back from the database driver with different
// Go types than the ones the sync computes (tinyint vs bool, []byte vs string, etc).
package utils

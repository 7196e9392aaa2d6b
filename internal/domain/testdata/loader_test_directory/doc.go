// Package loader_test_directory holds discovery fixtures.
package loader_test_directory

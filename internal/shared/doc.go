// Package shared holds helpers used across packages. Its testutil
// subpackage provides the solar station fixtures and slog capture used by
// the tests.
package shared

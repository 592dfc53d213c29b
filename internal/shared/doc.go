// Package shared holds helpers used across packages that belong to no
// single layer.
//
// The testutil subpackage carries test-only helpers: a buffered slog
// handler for asserting on log output and gradebook fixtures (a compact
// two-session layout with matching CSV and XLSX files) used by the
// service, transport and CLI tests.
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    data := testutil.ClassCSV(t)
//	    ...
//	    assert.True(t, logs.ContainsMessage("dataset ingested"))
//	}
//
// Nothing here may be imported from production code.
package shared

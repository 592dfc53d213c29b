// Package exporter writes datasets out for spreadsheet users.
//
// CSVWriter produces UTF-8 CSV with an optional BOM so that Excel picks
// the right encoding. Students and Panel turn a dataset into header and
// record slices, and WriteRiskXLSX renders a call list as a workbook.
//
// Example usage:
//
//	w := exporter.NewCSVWriter()
//	headers, records := exporter.Students(ds.Students)
//	err := w.WriteCSV(rw, exporter.WriteOptions{
//	    Headers:   headers,
//	    Records:   records,
//	    BOMPrefix: true,
//	})
package exporter

// Package gradebook turns a classroom gradebook spreadsheet into panel data.
//
// The workbook has one row per student. A handful of fixed columns carry the
// student identity and the end-of-term result, and between them sits a run of
// five-column blocks, one per class session, each opened by a "Pre-Class"
// marker in the label row. The row above the labels carries the session date.
//
// # Data Flow
//
//	Upload → Load (Grid) → LocateHeader → ExtractStudents ─┐
//	                                    → ExtractPanel ────┴→ Aggregate → Classify → Dataset
//
// # Usage
//
//	grid, format, err := gradebook.Load("turma.xlsx", file)
//	if err != nil {
//	    return err
//	}
//	extractor, err := gradebook.NewExtractor(gradebook.DefaultLayout(), logger)
//	if err != nil {
//	    return err
//	}
//	dataset, err := extractor.Extract(ctx, grid)
//
// Column positions are fixed by Layout; only the header row is searched for.
// Symbols that are not in a Scale, and dates that cannot be read, become
// null values rather than errors.
package gradebook

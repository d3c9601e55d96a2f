// Package dataprocessing loads solar station datasets and runs the
// exploratory analyses over them.
//
// # Components
//
//  1. Loader: reads CSV and XLSX files (first sheet) into a domain.Dataset
//  2. Summarizer: per-column statistics, the summary table and describe
//  3. Quality: missing and negative value counts, negative-row filtering
//  4. Charts: chart-ready series for the dashboard
//  5. Pipeline: every section above in report order
//
// # Usage
//
//	ds, err := dataprocessing.LoadFile(ctx, "dataset/benin-malanville.csv")
//	if err != nil {
//	    return err
//	}
//	stats := dataprocessing.SummaryTable(ds)
//	cleaned, err := dataprocessing.RemoveNegativeRows(ds, domain.IrradianceColumns)
//
// # Error Handling
//
// Load failures are LOAD errors from internal/errors. Analyses that need
// absent columns return SCHEMA errors and non-numeric columns TYPE errors;
// nothing is computed in either case.
package dataprocessing

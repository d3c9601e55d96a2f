// Package files locates dataset files and writes generated output.
//
// Discovery lists the CSV and Excel files of the data directory and maps a
// bare file name back to its path, refusing names that would leave the
// directory.
//
// Manager writes files below the configured directories. Relative paths
// starting with reports/ or logs/ land in those directories; anything else
// is relative to the data directory.
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	list, err := discovery.FindDatasets()
//
//	manager := files.NewManager(paths, logger)
//	path, err := manager.WriteFrom("reports/"+manager.ReportName("benin.csv", ".csv"), func(w io.Writer) error {
//	    return exporter.Export(w, ds, exporter.FormatCSV)
//	})
package files

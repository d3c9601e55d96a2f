// Package config loads the application configuration and resolves the
// directories the tools read from and write to.
//
// # Configuration Sources
//
// Values are layered, later sources overriding earlier ones:
//
//	1. Default()
//	2. a YAML file: $EDA_CONFIG_FILE, or config.yaml / configs/config.yaml
//	3. EDA_* environment variables
//
// # Environment Variables
//
// Nested fields join their section names with underscores:
//
//	EDA_SERVER_PORT=9090
//	EDA_LOGGING_LEVEL=debug
//	EDA_CACHE_MAX_ENTRIES=32
//	EDA_ANALYSIS_CLEAN_COLUMNS=GHI,DNI,DHI
//
// # Paths
//
// Relative directories resolve against paths.base_dir, or the directory of
// the running executable when that is empty:
//
//	paths, err := cfg.GetPaths()
//	if err != nil {
//	    return err
//	}
//	out := paths.GetReportPath("cleaned.csv")
package config

// Package http implements the dashboard's HTTP handlers. Handlers stay thin:
// they parse and validate requests, call the dataset service and render
// JSON, leaving analysis and caching to the service layer.
//
// # Routes
//
//	POST   /api/datasets                       multipart upload (field "file")
//	POST   /api/datasets/sample                load the configured sample
//	POST   /api/datasets/open                  load a file from the data dir
//	GET    /api/files                          dataset files in the data dir
//	GET    /api/datasets                       cached datasets and cache stats
//	DELETE /api/datasets                       clear the cache
//	GET    /api/datasets/{id}                  shape and schema
//	DELETE /api/datasets/{id}                  drop a dataset and its derivatives
//	GET    /api/datasets/{id}/describe         describe table
//	GET    /api/datasets/{id}/summary          summary statistics
//	GET    /api/datasets/{id}/missing          missing values per column
//	GET    /api/datasets/{id}/negatives        negative values per column
//	GET    /api/datasets/{id}/report           full pipeline report
//	POST   /api/datasets/{id}/clean            negative-row filter
//	GET    /api/datasets/{id}/charts/{kind}    chart data
//	GET    /api/datasets/{id}/export           CSV or XLSX download
//	POST   /api/datasets/{id}/save             export into the reports dir
//
// Successful responses wrap the payload as {"status":"success","data":...}.
// Errors are RFC 7807 problem details produced by errors.ErrorHandler.
package http

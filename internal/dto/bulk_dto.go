package dto

// BulkRowError pairs a spreadsheet display row number (header is line
// 1) with the joined rejection reasons for that row.
type BulkRowError struct {
	RowNumber int    `json:"rowNumber"`
	Reason    string `json:"reason"`
}

// BulkUploadResponse is the bulk endpoint contract. ErrorFileBase64 is
// set only when ErrorCount > 0 and carries the fix-and-reupload
// workbook.
type BulkUploadResponse struct {
	ErrorCount      int            `json:"errorCount"`
	ErrorDetails    []BulkRowError `json:"errorDetails"`
	ErrorFileBase64 *string        `json:"errorFileBase64"`
	Created         int            `json:"created"`
	Updated         int            `json:"updated"`
	DryRun          bool           `json:"dryRun"`
}

package constants

// LedgerColumns is the fixed column order for the ledger sheet. The order is
// the wire contract with the spreadsheet backend: every appended row carries
// exactly these cells, with empty strings for absent optionals.
var LedgerColumns = []string{
	"timestamp",
	"source_id",
	"name",
	"email",
	"phone",
	"skills",
	"years_experience",
	"education",
	"status",
}

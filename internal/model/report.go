package model

// Report is one CTPA report as read from the source table. Immutable once read.
type Report struct {
	StudyID string
	Body    string
}

// ReportRow mirrors the Parquet schema written by mkfixture. Sources with
// other column names are read by column lookup instead.
type ReportRow struct {
	StudyID string `parquet:"study_id"`
	Report  string `parquet:"report"`
}

package domain

import "time"

// FileError е грешка при четене на конкретен корпус файл. Не прекъсва
// обработката на останалите файлове, само се записва в резултата
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// AnalysisFilters са незадължителните филтри на един анализ. Бележки без
// разпозната дата минават през филтъра по дата
type AnalysisFilters struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// AnalysisSummary са агрегираните броячи от един анализ
type AnalysisSummary struct {
	FilesProcessed   int                `json:"files_processed"`
	FilesFailed      int                `json:"files_failed"`
	BlocksFound      int                `json:"blocks_found"`
	BlocksParsed     int                `json:"blocks_parsed"`
	BlocksSkipped    map[SkipReason]int `json:"blocks_skipped"`
	ObservationCount int                `json:"observation_count"`
	ProductsTotal    int                `json:"products_total"`
	ProductsRetained int                `json:"products_retained"`
}

// AnalysisRun е един завършен анализ на корпуса. Code е кратък код за
// показване и имена на експортирани файлове
type AnalysisRun struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Files       []string        `json:"files"`
	FileErrors  []FileError     `json:"file_errors,omitempty"`
	Filters     AnalysisFilters `json:"filters"`
	Summary     AnalysisSummary `json:"summary"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

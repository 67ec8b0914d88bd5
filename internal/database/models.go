package database

import (
	"time"

	"gorm.io/gorm"
)

// ImportLog records one attempt to push a case into the office system.
type ImportLog struct {
	gorm.Model
	FileNo       string    `json:"file_no" gorm:"index"`
	Unit         string    `json:"unit"`
	Success      bool      `json:"success"`
	CaseID       string    `json:"case_id"`
	ErrorMessage string    `json:"error_message"`
	ImportTime   time.Time `json:"import_time"`
	Duration     int64     `json:"duration_ms"`
}

// ImportedCase is the flattened record kept locally after a successful import.
type ImportedCase struct {
	gorm.Model
	ImportLogID uint   `json:"import_log_id"`
	FileNo      string `json:"file_no" gorm:"index"`
	Year        string `json:"year"`
	CaseNumber  string `json:"case_number"`
	FileType    string `json:"file_type"`
	City        string `json:"city"`
	Courthouse  string `json:"courthouse"`
	Department  string `json:"department"`
	Status      string `json:"status"`
	OpenDate    string `json:"open_date"`
	ClientName  string `json:"client_name"`
	RemoteID    string `json:"remote_id" gorm:"index"`
	RawRecord   string `json:"raw_record" gorm:"type:text"`
}

// Setting is one persisted key-value pair (api_url, auto_sync).
type Setting struct {
	gorm.Model
	Key   string `json:"key" gorm:"uniqueIndex"`
	Value string `json:"value"`
}

func (ImportLog) TableName() string {
	return "import_logs"
}

func (ImportedCase) TableName() string {
	return "imported_cases"
}

func (Setting) TableName() string {
	return "settings"
}

package model

// Entity types for parties.
const (
	EntityPerson  = "person"
	EntityCompany = "company"
)

// CaseSummary is one row scraped from the UYAP file-query list page.
// Fields extracted by the list extractor are merged with detail data later,
// never replaced.
type CaseSummary struct {
	Unit      string   `json:"birim"`
	FileNo    string   `json:"dosyaNo"`
	FileType  string   `json:"dosyaTuru"`
	Status    string   `json:"dosyaDurumu"`
	OpenDate  string   `json:"acilisTarihi"`
	DetailURL string   `json:"detailUrl,omitempty"`
	RawCells  []string `json:"rawCells,omitempty"`
}

// CaseInfo holds the metadata recovered from a detail view.
type CaseInfo struct {
	Year        string `json:"year"`
	CaseNumber  string `json:"caseNumber"`
	Courthouse  string `json:"courthouse"`
	Adliye      string `json:"adliye"`
	City        string `json:"city"`
	FileType    string `json:"fileType"`
	OpenDate    string `json:"openDate"`
	Status      string `json:"status"`
	NextHearing string `json:"nextHearing,omitempty"`
	HearingTime string `json:"hearingTime,omitempty"`
}

// Party is a person or organization formally involved in a case.
// Counsel is free text and may list several names comma-separated.
type Party struct {
	Name           string `json:"name"`
	EntityType     string `json:"entityType"`
	Capacity       string `json:"capacity"`
	Counsel        string `json:"lawyer"`
	IdentityNumber string `json:"identityNumber"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

// Lawyer is one counsel entry from the detail view's lawyer section.
type Lawyer struct {
	Name       string `json:"name"`
	Bar        string `json:"bar"`
	BarNumber  string `json:"barNumber"`
	Phone      string `json:"phone"`
	IsOpponent bool   `json:"isOpponent"`
}

// Document is one row from the detail view's document list.
type Document struct {
	DocumentType string `json:"documentType"`
	FileName     string `json:"fileName"`
	UploadDate   string `json:"uploadDate"`
	DownloadURL  string `json:"downloadUrl,omitempty"`
	DocumentID   string `json:"documentId,omitempty"`
}

// Hearing is one row from the detail view's hearing list. Date is already
// normalized to YYYY-MM-DD by the extractor.
type Hearing struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// Parties groups extracted parties by the side the portal presented them on.
type Parties struct {
	Clients   []Party `json:"clients"`
	Opponents []Party `json:"opponents"`
}

// CaseDetail aggregates everything extracted from a single detail view.
// Partial results are valid: any section may be empty.
type CaseDetail struct {
	CaseInfo  CaseInfo   `json:"caseInfo"`
	Parties   Parties    `json:"parties"`
	Lawyers   []Lawyer   `json:"lawyers"`
	Documents []Document `json:"documents"`
	Hearings  []Hearing  `json:"hearings"`
}

// MappedLawyer is one entry of the flattened lawyer list sent to the office
// backend. PartyIndex 0 refers to the primary party of PartyType's side.
type MappedLawyer struct {
	Name       string `json:"name"`
	Bar        string `json:"bar"`
	BarNumber  string `json:"bar_number"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PartyType  string `json:"party_type"`
	PartyIndex int    `json:"party_index"`
}

// MappedDocument mirrors the backend's document descriptor.
type MappedDocument struct {
	DocumentType string `json:"documentType"`
	FileName     string `json:"fileName"`
	UploadDate   string `json:"uploadDate"`
	DownloadURL  string `json:"downloadUrl,omitempty"`
	DocumentID   string `json:"documentId,omitempty"`
}

// AdditionalParty is a non-primary party on either side. The ID is synthetic,
// generated client-side for tracking only, never a business identifier.
type AdditionalParty struct {
	ID             string `json:"id"`
	EntityType     string `json:"entity_type"`
	Name           string `json:"name"`
	Capacity       string `json:"capacity"`
	IdentityNumber string `json:"identity_number"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

// SystemRecord is the flat JSON body posted to /api/import_from_uyap.
// Key names follow the office backend's form-field conventions.
type SystemRecord struct {
	FileType   string `json:"file-type"`
	City       string `json:"city"`
	Courthouse string `json:"courthouse"`
	Department string `json:"department"`
	Year       string `json:"year"`
	CaseNumber string `json:"case-number"`
	OpenDate   string `json:"open-date"`
	Status     string `json:"status"`

	ClientEntityType string `json:"client-entity-type"`
	ClientName       string `json:"client-name"`
	ClientCapacity   string `json:"client-capacity"`
	ClientID         string `json:"client-id"`
	ClientPhone      string `json:"client-phone"`
	ClientAddress    string `json:"client-address"`

	OpponentEntityType string `json:"opponent-entity-type"`
	OpponentName       string `json:"opponent-name"`
	OpponentCapacity   string `json:"opponent-capacity"`
	OpponentID         string `json:"opponent-id"`
	OpponentPhone      string `json:"opponent-phone"`
	OpponentAddress    string `json:"opponent-address"`

	// JSON-encoded arrays of AdditionalParty, empty string when none.
	AdditionalClientsJSON   string `json:"additional_clients_json"`
	AdditionalOpponentsJSON string `json:"additional_opponents_json"`

	Lawyers   []MappedLawyer   `json:"lawyers"`
	Documents []MappedDocument `json:"documents"`
	Hearings  []Hearing        `json:"hearings"`
}

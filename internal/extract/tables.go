package extract

import "regexp"

// Tables parameterizes the extraction engine. The portal has no stable
// markup contract, so every heuristic the extractors rely on lives here:
// a format drift on the portal side is a table change, not a code change.
type Tables struct {
	// URL path tokens signalling a list or a detail page.
	ListURLTokens   []string
	DetailURLTokens []string

	// Selectors whose presence marks a detail container.
	DetailSelectors []string

	// List-page column headers, matched by substring containment, and the
	// positional indices used when a header-less table is encountered.
	ListHeaders ListHeaderTable

	// Title-like selectors probed for a case-number-bearing heading,
	// in priority order.
	TitleSelectors []string

	// TitlePattern recovers year, case number and court name from a
	// heading in one shot. It is the primary source of truth.
	TitlePattern *regexp.Regexp

	// Label synonyms for the label/value lookup fallback.
	CaseNoLabels      []string
	CourtLabels       []string
	FileTypeLabels    []string
	OpenDateLabels    []string
	StatusLabels      []string
	NextHearingLabels []string
	HearingTimeLabels []string

	// District rosters per metropolitan city, checked in order.
	Metros []Metro
	// Plain city names that appear as court prefixes directly.
	OtherCities []string
	// Suffix appended to a district to form the courthouse label.
	CourthouseSuffix string

	// Keywords deciding file type from the heading text.
	CriminalTokens []string
	CivilTokens    []string

	// Party-table header keywords.
	RoleHeaders    []string
	TypeHeaders    []string
	NameHeaders    []string
	CounselHeaders []string

	// Role keywords that route a party to a side.
	ClientRoleKeywords   []string
	OpponentRoleKeywords []string

	// Tokens in a party name that mark an organization.
	CompanyKeywords []string

	// Section heading keywords.
	PartySectionTitles    []string
	LawyerSectionTitles   []string
	DocumentSectionTitles []string
	HearingSectionTitles  []string
}

// Metro is one metropolitan city with its curated district roster.
type Metro struct {
	City      string
	Districts []string
}

// CaseNumberPattern is the strict file-number gate. Anything else is not a
// case row.
var CaseNumberPattern = regexp.MustCompile(`^\d{4}/\d+$`)

// ListHeaderTable pairs each target column's header label with the
// positional index assumed when no header matches.
type ListHeaderTable struct {
	Unit     ColumnRule
	FileNo   ColumnRule
	FileType ColumnRule
	Status   ColumnRule
	OpenDate ColumnRule
}

type ColumnRule struct {
	Label    string
	Fallback int
}

// DefaultTables returns the heuristics tuned for the current UYAP avukat
// portal markup.
func DefaultTables() Tables {
	return Tables{
		ListURLTokens:   []string{"dosya", "sorgula"},
		DetailURLTokens: []string{"detay"},
		DetailSelectors: []string{".case-detail", "[id*='detail']"},

		ListHeaders: ListHeaderTable{
			Unit:     ColumnRule{Label: "Birim", Fallback: 0},
			FileNo:   ColumnRule{Label: "Dosya No", Fallback: 1},
			FileType: ColumnRule{Label: "Dosya Türü", Fallback: 2},
			Status:   ColumnRule{Label: "Dosya Durumu", Fallback: 3},
			OpenDate: ColumnRule{Label: "Açılış Tarihi", Fallback: 4},
		},

		TitleSelectors: []string{
			".modal-title",
			".dx-toolbar-label",
			".panel-heading",
			"h1",
			"h2",
		},
		TitlePattern: regexp.MustCompile(`(\d{4})/(\d+)\s+(.+?)\s*(?:–|—|-|$)`),

		CaseNoLabels:      []string{"Esas No", "Dosya No", "Esas Numarası"},
		CourtLabels:       []string{"Mahkeme", "Birim", "Yargı Birimi"},
		FileTypeLabels:    []string{"Yargı Türü", "Dosya Türü"},
		OpenDateLabels:    []string{"Açılış Tarihi", "Dava Açılış Tarihi"},
		StatusLabels:      []string{"Dosya Durumu", "Durum"},
		NextHearingLabels: []string{"Duruşma Tarihi", "Sonraki Duruşma"},
		HearingTimeLabels: []string{"Duruşma Saati"},

		Metros: []Metro{
			{
				City: "İstanbul",
				Districts: []string{
					"Bakırköy", "Kadıköy", "Beşiktaş", "Şişli", "Ümraniye", "Kartal",
					"Maltepe", "Pendik", "Ataşehir", "Üsküdar", "Beyoğlu", "Fatih",
					"Eyüpsultan", "Güngören", "Bahçelievler", "Bağcılar", "Esenler",
					"Zeytinburnu", "Avcılar", "Küçükçekmece", "Büyükçekmece",
				},
			},
			{
				City: "Ankara",
				Districts: []string{
					"Çankaya", "Keçiören", "Mamak", "Yenimahalle", "Sincan", "Etimesgut",
					"Altındağ", "Pursaklar", "Gölbaşı",
				},
			},
			{
				City: "İzmir",
				Districts: []string{
					"Konak", "Bornova", "Karşıyaka", "Buca", "Bayraklı", "Gaziemir",
				},
			},
		},
		OtherCities: []string{
			"Tekirdağ", "Edirne", "Kırklareli", "Çanakkale", "Balıkesir",
			"Bursa", "Kocaeli", "Sakarya", "Antalya", "Adana", "Mersin",
		},
		CourthouseSuffix: " Adliyesi",

		CriminalTokens: []string{"Ceza", "Ağır Ceza"},
		CivilTokens:    []string{"Hukuk", "İş Mahkemesi", "Asliye", "Sulh", "Aile", "Ticaret"},

		RoleHeaders:    []string{"Sıfat", "Rol"},
		TypeHeaders:    []string{"Tip", "Tür"},
		NameHeaders:    []string{"Adı", "Ad Soyad", "İsim"},
		CounselHeaders: []string{"Vekil", "Avukat"},

		ClientRoleKeywords:   []string{"davacı", "sanık"},
		OpponentRoleKeywords: []string{"davalı", "müşteki", "katılan"},

		CompanyKeywords: []string{
			"LTD", "A.Ş", "A.S", "Limited", "Anonim", "Şirketi",
			"Kooperatif", "Dernek", "Vakıf", "Belediye", "Müdürlüğü",
		},

		PartySectionTitles:    []string{"Taraf", "Taraflar", "Taraf Bilgileri"},
		LawyerSectionTitles:   []string{"Vekil", "Avukat"},
		DocumentSectionTitles: []string{"Evrak", "Belge", "Belgeler"},
		HearingSectionTitles:  []string{"Duruşma", "Celse", "Oturum"},
	}
}

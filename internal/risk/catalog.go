package risk

// Catalog is a regulation's fixed obligation list with its reporting metadata.
type Catalog struct {
	RegulationID   string
	RegulationName string
	Regions        []string
	Obligations    []Obligation
	Citations      []Citation
}

// UtahCatalog returns the Utah Social Media Regulation Act obligations.
func UtahCatalog() *Catalog {
	return &Catalog{
		RegulationID:   "UT_SMR_2023",
		RegulationName: "Utah Social Media Regulation Act (2023)",
		Regions:        []string{"Utah"},
		Obligations: []Obligation{
			{
				ID: "AGE_VERIFICATION", Title: "Age verification / assurance", Severity: SeverityHigh, RegionHint: "Utah",
				Positive: []string{"asl", "age", "minor"},
				Negative: []string{"no age", "anonymous access"},
			},
			{
				ID: "PARENTAL_CONSENT", Title: "Parental consent for <18", Severity: SeverityHigh, RegionHint: "Utah",
				Positive: []string{"parental", "consent"},
				Negative: []string{"no consent", "skip consent"},
			},
			{
				ID: "CURFEW_BLOCK", Title: "Night curfew enforcement", Severity: SeverityMedium, RegionHint: "Utah",
				Positive: []string{"curfew", "night", "restricted"},
			},
			{
				ID: "GEOFENCE_UT", Title: "Utah geofencing accuracy", Severity: SeverityMedium, RegionHint: "Utah",
				Positive: []string{"gh", "utah", "geofence", "boundary"},
				Negative: []string{"global", "worldwide"},
			},
			{
				ID: "AUDIT_LOGS", Title: "Compliance audit logging/retention", Severity: SeverityLow, RegionHint: "Utah",
				Positive: []string{"log", "echotrace", "audit"},
			},
			{
				ID: "TRANSPARENCY_NOTICE", Title: "User transparency/notice (avoid shadow enforcement)", Severity: SeverityMedium, RegionHint: "Utah",
				Positive: []string{"notice", "explain", "disclosure"},
				Negative: []string{"shadowmode", "no alerts", "silent"},
			},
			{
				ID: "APPEALS_OVERRIDE", Title: "Appeals / emancipated minor override", Severity: SeverityMedium, RegionHint: "Utah",
				Positive: []string{"appeal", "override", "verification exception"},
			},
			{
				ID: "DATA_MINIMIZATION", Title: "Data minimization for age signals", Severity: SeverityLow, RegionHint: "Utah",
				Positive: []string{"minimize", "hashed", "no retention"},
				Negative: []string{"store everything", "broad collection"},
			},
		},
		Citations: []Citation{
			{Label: "Utah Social Media Regulation Act (PDF)", URL: "https://dcp.utah.gov/wp-content/uploads/2023/12/Social-Media-Regulation-PDF.pdf"},
			{Label: "Utah program site", URL: "https://socialmedia.utah.gov/"},
		},
	}
}

// Find returns the obligation with the given id.
func (c *Catalog) Find(id string) (Obligation, bool) {
	for _, o := range c.Obligations {
		if o.ID == id {
			return o, true
		}
	}
	return Obligation{}, false
}

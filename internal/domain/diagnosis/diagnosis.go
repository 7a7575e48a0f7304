package diagnosis

// Diagnosis is a catalog entry. Patients keep a value copy, so catalog edits are never retroactive.
type Diagnosis struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type CreateDiagnosisCommand struct {
	Code        string
	Description string
}

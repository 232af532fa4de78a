package model

// FactorScore is one weighted component of an Outlook.
type FactorScore struct {
	Name       string
	RawScore   float64 // -2.0 ~ +2.0
	Weight     float64
	Weighted   float64
	Commentary string
}

// Outlook rates a forecast against the recent behaviour of its series.
type Outlook struct {
	Factors    []FactorScore
	TotalScore float64
	Label      string
	WarningMsg string
}

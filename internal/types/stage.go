package types

import "strings"

// Stage is the deployment target whose catalog is read.
// CODE and PROD catalogs differ in content but share key semantics.
type Stage string

const (
	StageCODE Stage = "CODE"
	StagePROD Stage = "PROD"
)

// ParseStage accepts any casing of a known stage
func ParseStage(s string) (Stage, bool) {
	stage := Stage(strings.ToUpper(strings.TrimSpace(s)))
	switch stage {
	case StageCODE, StagePROD:
		return stage, true
	}
	return stage, false
}

func (s Stage) String() string {
	return string(s)
}

// IsProduction reports whether the stage is PROD
func (s Stage) IsProduction() bool {
	return s == StagePROD
}

package rights

import (
	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

// UncertainLowThreshold is the number of uncertain rights at which the grade
// drops to LOW.
const UncertainLowThreshold = 3

// ConfidenceInput gathers the signals the grade depends on.
type ConfidenceInput struct {
	ParseConfidence  registry.Confidence
	HasParseWarnings bool
	BaseResolved     bool
	UncertainCount   int
}

// GradeConfidence applies the LOW → MEDIUM → HIGH cascade.  LOW conditions are
// checked first and dominate.
func GradeConfidence(in ConfidenceInput) registry.Confidence {
	switch {
	case in.ParseConfidence == registry.ConfidenceLow,
		!in.BaseResolved,
		in.UncertainCount >= UncertainLowThreshold:
		return registry.ConfidenceLow
	case in.HasParseWarnings, in.UncertainCount > 0:
		return registry.ConfidenceMedium
	default:
		return registry.ConfidenceHigh
	}
}

//Personal.AI order the ending

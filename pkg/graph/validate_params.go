package graph

import (
	"fmt"

	"github.com/chazu/meshsmith/pkg/primitive"
)

// ---------------------------------------------------------------------------
// Tier 2: parameter validation (errors and warnings)
// ---------------------------------------------------------------------------

// validateParams checks primitive parameters. Values the builders cannot
// turn into a closed mesh are errors; values the builders silently adjust
// are warnings.
func validateParams(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range g.Parts() {
		id := node.ID

		var err error
		switch d := node.Data.(type) {
		case CapsuleData:
			err = d.Params.Validate()
			if d.Params.Height < primitive.MinCapsuleHeight {
				warnings = append(warnings, ValidationWarning{
					NodeID: id,
					Message: fmt.Sprintf("capsule height %g is below %g and will be clamped",
						d.Params.Height, primitive.MinCapsuleHeight),
				})
			}
		case SphereData:
			err = d.Params.Validate()
		case BoxData:
			err = d.Params.Validate()
		default:
			continue
		}

		if err != nil {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  err.Error(),
				Severity: SeverityError,
			})
		}
	}

	return errs, warnings
}

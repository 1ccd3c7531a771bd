package geometry

// GeometryBuilderOption is a functional option for configuring a Geometry during construction.
type GeometryBuilderOption func(*geometryImpl)

// WithLabel sets the debug label used for GPU buffer names.
//
// Parameters:
//   - label: the label to set
//
// Returns:
//   - GeometryBuilderOption: a function that sets the label
func WithLabel(label string) GeometryBuilderOption {
	return func(g *geometryImpl) {
		if label != "" {
			g.label = label
		}
	}
}

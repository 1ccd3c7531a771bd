package dirtree

// GeneratorBuilderOption is a functional option for configuring a Generator.
type GeneratorBuilderOption func(*Generator)

// WithIgnoreDirs replaces the directory ignore list. Entries are doublestar patterns matched
// against the directory name.
func WithIgnoreDirs(patterns ...string) GeneratorBuilderOption {
	return func(g *Generator) {
		g.ignoreDirs = patterns
	}
}

// WithIgnoreFiles replaces the file ignore list. Entries are doublestar patterns matched against
// the file name.
func WithIgnoreFiles(patterns ...string) GeneratorBuilderOption {
	return func(g *Generator) {
		g.ignoreFiles = patterns
	}
}

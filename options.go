package neumatic

// pipelineOptions holds configuration for a processing run.
type pipelineOptions struct {
	// Clustering
	tolerance float64

	// Interpolation
	curves     int
	samples    int
	bandFactor float64
	numLines   int

	// Pitch estimation and staff-definition defaults
	baseNote   string
	baseOctave int
	clefShape  string
	clefLine   int
}

// defaultOptions returns the default pipeline options.
func defaultOptions() pipelineOptions {
	return pipelineOptions{
		tolerance:  100,
		curves:     8,
		samples:    100,
		bandFactor: 1.5,
		numLines:   4,
		baseNote:   "c",
		baseOctave: 4,
		clefShape:  "C",
		clefLine:   4,
	}
}

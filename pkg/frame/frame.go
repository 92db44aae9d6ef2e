package frame

// HistoMaker is the capability a columnar event source needs to offer
// for histogram production: construct a 1-D histogram from a named
// value column, optionally weighted by a second named column. Binning,
// filling and column resolution are entirely the maker's concern.
type HistoMaker interface {
	Histo1D(model H1Model, column string) (*Histogram, error)
	Histo1DWeighted(model H1Model, column, weightColumn string) (*Histogram, error)
}

// Histo1D forwards to the frame's own histogram construction. It adds
// no logic; any column or model error is the frame's.
func Histo1D(df HistoMaker, model H1Model, column string) (*Histogram, error) {
	return df.Histo1D(model, column)
}

// Histo1DWeighted forwards the weighted variant the same way.
func Histo1DWeighted(df HistoMaker, model H1Model, column, weightColumn string) (*Histogram, error) {
	return df.Histo1DWeighted(model, column, weightColumn)
}

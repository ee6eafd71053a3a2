package domain

// ReportSource describes one operator's published weekly report: the brand
// name used in the canonical dataset, the public download URL, and the
// filename the raw file is stored under.
type ReportSource struct {
	Brand    string `json:"brand" yaml:"brand" validate:"required"`
	URL      string `json:"url" yaml:"url" validate:"required,url"`
	Filename string `json:"filename" yaml:"filename" validate:"required"`
}

// SourceByFilename indexes a source catalog by stored filename, which is
// how the extractor maps a downloaded file back to its brand.
func SourceByFilename(sources []ReportSource) map[string]ReportSource {
	index := make(map[string]ReportSource, len(sources))
	for _, s := range sources {
		index[s.Filename] = s
	}
	return index
}

package utils

type FetchJob struct {
	URL              string
	OutputPath       string
	ChunkSize        int
	HTTPClientConfig HTTPClientConfig
}

type BatchEntry struct {
	OutputPath string `yaml:"op,omitempty"`
	Link       string `yaml:"link"`
}

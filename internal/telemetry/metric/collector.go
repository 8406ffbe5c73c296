package metric

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

// DocumentCollector reports the on-disk size of the snippet document.
// Values are read at collection time, so they reflect the file as it is
// when the registry is exported.
type DocumentCollector struct {
	path string

	sizeDesc     *prometheus.Desc
	modifiedDesc *prometheus.Desc
}

// NewDocumentCollector creates a collector for the document at path.
func NewDocumentCollector(path string) *DocumentCollector {
	return &DocumentCollector{
		path: path,
		sizeDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "document", "size_bytes"),
			"Size of the snippet document in bytes",
			nil, nil,
		),
		modifiedDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "document", "modified_timestamp_seconds"),
			"Last modification time of the snippet document",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *DocumentCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sizeDesc
	ch <- c.modifiedDesc
}

// Collect implements prometheus.Collector.
// A missing document reports nothing.
func (c *DocumentCollector) Collect(ch chan<- prometheus.Metric) {
	info, err := os.Stat(c.path)
	if err != nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.sizeDesc, prometheus.GaugeValue, float64(info.Size()))
	ch <- prometheus.MustNewConstMetric(c.modifiedDesc, prometheus.GaugeValue, float64(info.ModTime().Unix()))
}

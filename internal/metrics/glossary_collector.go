package metrics

import "github.com/prometheus/client_golang/prometheus"

// GlossarySizer reports the number of cached entities. index.MemoryIndex
// satisfies it.
type GlossarySizer interface {
	AbbreviationCount() int
	GroupCount() int
	ExceptionCount() int
}

// GlossaryCollector reads glossary sizes on each scrape.
type GlossaryCollector struct {
	sizer   GlossarySizer
	entries *prometheus.Desc
}

func NewGlossaryCollector(sizer GlossarySizer) *GlossaryCollector {
	return &GlossaryCollector{
		sizer: sizer,
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "glossary", "entries"),
			"Number of glossary entities currently loaded, by kind",
			[]string{"kind"},
			nil,
		),
	}
}

func (c *GlossaryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
}

func (c *GlossaryCollector) Collect(ch chan<- prometheus.Metric) {
	if c.sizer == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.sizer.AbbreviationCount()), "abbreviation")
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.sizer.GroupCount()), "group")
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.sizer.ExceptionCount()), "exception")
}

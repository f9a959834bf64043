// Package metrics records pipeline stage timings and outcomes.
//
// Components receive a Recorder. NoopRecorder is the default and costs
// nothing; PrometheusRecorder collects into a registry that the CLI writes
// out as a node-exporter textfile when --metrics-file is set:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	// ... run the pipeline with rec ...
//	err := metrics.WriteTextfile(path, reg)
package metrics

package service

// Metrics receives domain counters; *observability.Collector satisfies it
type Metrics interface {
	EstimateInc(source string)
	TrailInc()
	FramesAdd(n int)
	TaskFinished(skill, status string)
	SetActiveVessels(n int)
}

type noopMetrics struct{}

func (noopMetrics) EstimateInc(string)          {}
func (noopMetrics) TrailInc()                   {}
func (noopMetrics) FramesAdd(int)               {}
func (noopMetrics) TaskFinished(string, string) {}
func (noopMetrics) SetActiveVessels(int)        {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

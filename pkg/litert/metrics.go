package litert

// Metrics is a read-only snapshot of runtime performance counters taken by
// CompiledModel.StopMetricsCollection. The caller owns it and destroys it.
type Metrics struct {
	lc  lifecycle
	api nativeAPI
	h   ref
}

// Len returns the number of recorded metrics.
func (m *Metrics) Len() (int, error) {
	const op = "num metrics"
	if err := m.lc.use(op); err != nil {
		return 0, err
	}
	n, st := m.api.NumMetrics(m.h)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	return n, nil
}

// At returns the metric at index.
func (m *Metrics) At(index int) (Metric, error) {
	const op = "get metric"
	if err := m.lc.use(op); err != nil {
		return Metric{}, err
	}
	mt, st := m.api.Metric(m.h, index)
	if st != StatusOk {
		return Metric{}, statusErr(op, st)
	}
	return mt, nil
}

// All returns every metric in the snapshot.
func (m *Metrics) All() ([]Metric, error) {
	n, err := m.Len()
	if err != nil {
		return nil, err
	}
	out := make([]Metric, 0, n)
	for i := 0; i < n; i++ {
		mt, err := m.At(i)
		if err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	return out, nil
}

// Destroy releases the snapshot. Safe to call more than once.
func (m *Metrics) Destroy() error {
	if m.lc.release() {
		m.api.DestroyMetrics(m.h)
	}
	return nil
}

package series

// DetectOutliers classifies every sample of a series against a threshold
// pair. Samples at or above Critical are tagged critical, samples at or
// above Warning (but below Critical) are tagged warning, everything else is
// left alone. The result is ordered by index with at most one entry per
// index. Total function: an Unbounded pair yields no detections.
func DetectOutliers(values []float64, thresholds ThresholdPair) []Outlier {
	var outliers []Outlier
	for i, v := range values {
		switch {
		case v >= thresholds.Critical:
			outliers = append(outliers, Outlier{Index: i, Value: v, Severity: SeverityCritical})
		case v >= thresholds.Warning:
			outliers = append(outliers, Outlier{Index: i, Value: v, Severity: SeverityWarning})
		}
	}
	return outliers
}

// Window pairs a value series with its detected outliers.
func Window(values []float64, thresholds ThresholdPair) MetricWindow {
	return MetricWindow{Values: values, Outliers: DetectOutliers(values, thresholds)}
}

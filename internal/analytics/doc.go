// Package analytics computes the read-only views of a classroom dataset:
// headline KPIs, descriptive statistics, the presence trend, the
// presence versus grade regression, the participation climate, the risk
// quadrant, call lists and single-student profiles.
//
// Every function is pure. Inputs come from an extracted domain.Dataset;
// nothing here touches the file, the cache or the network.
//
// # Statistics
//
// Means, sample standard deviations and the ordinary least squares fits
// are delegated to gonum's stat package. Missing scores are skipped, never
// treated as zero:
//
//	stats := analytics.Stats(ds.Students)
//	corr := analytics.Correlate(ds.Students)
//	if corr.Overall.Valid {
//	    fmt.Printf("grade = %.2f + %.2f*presence\n", corr.Overall.Intercept, corr.Overall.Slope)
//	}
package analytics

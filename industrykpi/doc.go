// Package industrykpi provides the IndustryKpiMap block: the KPIs,
// operating constraints, compliance obligations and buyer journey for one
// industry/service pair.
package industrykpi

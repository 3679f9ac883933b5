// Package table parses the aggregated simulator output into a numeric table.
//
// The results file is the plain concatenation of every simulator run. Each
// non-blank line is one row of whitespace-separated floating point fields.
// Lines starting with '#' are treated as comments, matching numpy.loadtxt.
//
// # Column Contract
//
// The table itself enforces only that rows are rectangular and numeric.
// Column meaning is a contract with the external simulator:
//
//	0  temperature T
//	1  mean magnetization per site <m>
//	2  magnetization variance
//	3  mean energy per site <e>
//	4  energy fluctuation
//
// Use Observations for named access instead of indexing columns directly.
package table

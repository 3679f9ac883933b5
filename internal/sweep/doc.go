// Package sweep drives an external Ising simulator across a temperature sweep.
//
// A Runner invokes the simulator once per temperature and appends each run's
// standard output verbatim to a single results file. When every run has
// finished it parses that file into a table.Table.
//
// # Guarantees
//
//   - Config is validated before anything touches the filesystem.
//   - The results file is truncated exactly once per Run, before the first invocation.
//   - Output is appended in temperature order, one invocation at a time.
//   - The first failing invocation aborts the sweep; later temperatures never run.
//   - Nothing is cached. Running the same Config twice repeats every invocation.
//
// # Failure Is Not Transactional
//
// Truncation and appends are physical file effects and are not rolled back.
// After an ExternalProcessError the results file holds the output of every
// invocation that completed before the failure, and nothing else.
//
// # Parallel Mode
//
// Config.Parallel > 1 runs up to that many invocations at once. Outputs are
// buffered in memory and appended in temperature order only after all of them
// succeed, so the file content is identical to a sequential sweep, and a
// failed parallel sweep leaves the file empty.
package sweep

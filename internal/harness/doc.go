// Package harness runs BMI counting scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: sample-structured
//	description: "Six sample records, default bounds"
//	records:
//	  - {Gender: Male, HeightCm: 171, WeightKg: 96}
//	  - {Gender: Female, HeightCm: 167, WeightKg: 82}
//	bounds: {lower: 25, upper: 29.9}
//	expect:
//	  count: 1
//	  total: 2
//	  values: [32.83, 29.4]
//
// A scenario supplies its batch either as structured `records` or as
// serialized `input` text, with `format: json|yaml` selecting the decoder
// (JSON by default). `bounds` is optional and defaults to [25, 29.9].
//
// # Expectations
//
//   - count: number of BMI values inside the bounds
//   - total: number of records processed
//   - values: the rounded BMI of every record, in input order
//   - error: the error code the batch must fail with (e.g. DATATYPE_MISMATCH)
//   - record: with error, the index of the offending record
//
// An expectation of error excludes count, total and values.
//
// # Determinism
//
// Every successful run is recorded in a fresh in-memory store under a
// predictable run ID and replayed from its stored records. A replay that
// disagrees with the original run fails the scenario.
//
// # Golden Files
//
// RunWithGolden compares a canonical JSON report of the run against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness

// Package batch runs the BMI pipeline over a collection of records.
//
// An Input is either Structured (records already in memory) or Serialized
// (JSON or YAML text). Decode turns any Input into records; Aggregate maps
// every record through bmi.Calculate and counts the results inside a band.
//
// The whole call is atomic: it returns a count or an error, never a partial
// result. One bad record aborts the batch.
package batch

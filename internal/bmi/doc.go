// Package bmi validates measurements, computes Body Mass Index and counts
// values inside a closed band.
//
// validate.go checks that a Scalar coerces to a numeric Kind. A failure is
// logged at ERROR level and returned as an ir.Error with code DATATYPE_MISMATCH.
//
// calculate.go computes weight(kg) / height(m)^2 rounded to two decimals.
// Both inputs are validated with the Integer kind before any arithmetic.
//
// count.go counts values v with Lower <= v <= Upper. The default band is the
// conventional overweight range [25, 29.9].
package bmi

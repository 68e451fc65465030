// Package testutil provides the two small assertion helpers used across this
// module's tests, mirroring the teacher's own hand-rolled
// testing/testing_util helper rather than pulling in testify.
package testutil

import (
	"reflect"
	"testing"
)

// Ok fails the test immediately if err is non-nil.
func Ok(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Equals fails the test if want and got are not deeply equal.
func Equals(t *testing.T, want, got any) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want: %#v\ngot:  %#v", want, got)
	}
}

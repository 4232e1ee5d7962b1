package testutils

// Must unwraps a value, panicking on error.
// Meant for fixture setup where a failure makes the rest of the test meaningless.
func Must[T any](v T, err error) T {
	MustNoErr(err)
	return v
}

func MustNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

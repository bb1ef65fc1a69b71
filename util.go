package checkls

// Ptr returns a pointer to v. Used for optional config and protocol fields.
func Ptr[T any](v T) *T {
	return &v
}

// OrZeroValue returns the value t points to, or T's zero value when t is nil.
func OrZeroValue[T any](t *T) T {
	if t == nil {
		var zero T
		return zero
	}
	return *t
}

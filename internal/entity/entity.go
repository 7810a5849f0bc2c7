package entity

// Model constrains pointers to persisted records keyed by a caller-supplied id.
type Model[T any] interface {
	*T
	PrimaryKey() int64
}

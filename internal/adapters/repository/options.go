package repository

// Option applies a configuration option to the MemEvaluationStore.
type Option func(*MemEvaluationStore)

// WithIDGenerator replaces the record ID generator. Tests use this for
// deterministic IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemEvaluationStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

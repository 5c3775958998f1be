package model

import "fmt"

// Summary counts the outcome of a batch operation. Failed items are kept in
// their original form by the caller; Errors explains each one.
type Summary struct {
	Total     int
	Succeeded int
	Unchanged int
	Failed    int
	Errors    []error
}

func (s *Summary) Fail(err error) {
	s.Failed++
	s.Errors = append(s.Errors, err)
}

func (s *Summary) Merge(o Summary) {
	s.Total += o.Total
	s.Succeeded += o.Succeeded
	s.Unchanged += o.Unchanged
	s.Failed += o.Failed
	s.Errors = append(s.Errors, o.Errors...)
}

func (s Summary) String() string {
	return fmt.Sprintf("total=%d succeeded=%d unchanged=%d failed=%d", s.Total, s.Succeeded, s.Unchanged, s.Failed)
}

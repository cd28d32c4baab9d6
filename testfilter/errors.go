package testfilter

import "fmt"

// VCSError reports a version-control failure while computing the changed
// file set. The filter never produces a partial result on top of an
// incomplete change list, so callers should treat it as fatal for the
// invocation.
type VCSError struct {
	Op  string
	Err error
}

func (e *VCSError) Error() string {
	return fmt.Sprintf("version control %s failed: %v", e.Op, e.Err)
}

func (e *VCSError) Unwrap() error { return e.Err }

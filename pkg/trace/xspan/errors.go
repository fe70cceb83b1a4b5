package xspan

import "errors"

// ErrNilContext StartFromContext 传入的 context 为 nil
var ErrNilContext = errors.New("xspan: nil context")

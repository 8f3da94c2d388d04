package common

import (
	"fmt"
)

var (
	ErrInvalidAddress = fmt.Errorf("invalid pool address")
	ErrEmptyBatch     = fmt.Errorf("empty batch")
	ErrEmptyResponse  = fmt.Errorf("empty response from RPC endpoint")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
)

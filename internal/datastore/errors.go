package datastore

import "github.com/aleister1102/toughcanvas/internal/common"

// IsNotFound reports whether err means a run or results file does not exist
func IsNotFound(err error) bool {
	return common.IsNotFound(err)
}

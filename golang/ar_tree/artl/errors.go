package artl

import (
	"errors"
	"log"
)

var (
	//ErrEmptyDataset is returned when a statistic is requested on zero observations.
	ErrEmptyDataset = errors.New("empty dataset")
	//ErrSingularMatrix is returned when a required matrix inversion is numerically degenerate.
	ErrSingularMatrix = errors.New("singular matrix")
	//ErrInvalidHyperparameter is returned for an order, prior weight or stopping rule out of range.
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")
	//ErrDimensionMismatch is returned when observations or feature vectors have the wrong width.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	//ErrUnknownNode is returned when a stored tree references a node that does not exist.
	ErrUnknownNode = errors.New("unknown tree node")
)

//HandleError panics on a non-nil error. It is meant for unrecoverable I/O in command line tools.
func HandleError(err error) {
	if err != nil {
		log.Panic(err)
	}
}

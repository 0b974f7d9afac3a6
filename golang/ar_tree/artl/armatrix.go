package artl

import (
	"fmt"
	"log"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//ARMatrix is a set of observations. Each row holds p lags followed by the response.
//An empty partition has nil Observations.
type ARMatrix struct {
	Observations *mat.Dense
	RecordIds    []int
	Description  *string
}

//NewARMatrix wraps observations and numbers the records from zero.
func NewARMatrix(observations *mat.Dense) ARMatrix {
	am := ARMatrix{Observations: observations}
	h := am.Height()
	am.RecordIds = make([]int, h)
	for p := 0; p < h; p++ {
		am.RecordIds[p] = p
	}
	return am
}

//SetDescription sets a description for an ARMatrix object
func (am *ARMatrix) SetDescription(description string) {
	am.Description = &description
}

//Height returns the number of observations.
func (am ARMatrix) Height() int {
	if am.Observations == nil {
		return 0
	}
	h, _ := am.Observations.Dims()
	return h
}

//Width returns the observation dimension, zero for an empty set.
func (am ARMatrix) Width() int {
	if am.Observations == nil {
		return 0
	}
	_, w := am.Observations.Dims()
	return w
}

//Row returns a copy of the observation with index p.
func (am ARMatrix) Row(p int) []float64 {
	return mat.Row(nil, p, am.Observations)
}

//validateWidth checks that the observations fit the autoregressive order.
func (am ARMatrix) validateWidth(hp *HyperParams) error {
	if am.Height() == 0 {
		return ErrEmptyDataset
	}
	if w := am.Width(); w != hp.Width() {
		return fmt.Errorf("%w: observations of width %d for order %d", ErrDimensionMismatch, w, hp.Order())
	}
	if len(am.RecordIds) != am.Height() {
		return fmt.Errorf("%w: %d record ids for %d observations", ErrDimensionMismatch, len(am.RecordIds), am.Height())
	}
	return nil
}

//Predictors returns the lag columns of the observations, dropping the response.
func (am ARMatrix) Predictors() ARMatrix {
	h, w := am.Height(), am.Width()
	if h == 0 || w < 2 {
		return ARMatrix{}
	}
	predictors := mat.DenseCopyOf(am.Observations.Slice(0, h, 0, w-1))
	return ARMatrix{Observations: predictors, RecordIds: am.RecordIds}
}

//Split splits observations by the rule "feature < threshold goes to the left".
func (am ARMatrix) Split(featureIndex int, threshold float64) (left, right ARMatrix) {
	h, w := am.Height(), am.Width()
	leftCount := 0
	for p := 0; p < h; p++ {
		if am.Observations.At(p, featureIndex) < threshold {
			leftCount++
		}
	}
	rightCount := h - leftCount

	if leftCount > 0 {
		left.Observations = mat.NewDense(leftCount, w, nil)
		left.RecordIds = make([]int, 0, leftCount)
	}
	if rightCount > 0 {
		right.Observations = mat.NewDense(rightCount, w, nil)
		right.RecordIds = make([]int, 0, rightCount)
	}

	leftInd, rightInd := 0, 0
	for p := 0; p < h; p++ {
		if am.Observations.At(p, featureIndex) < threshold {
			left.Observations.SetRow(leftInd, am.Observations.RawRowView(p))
			left.RecordIds = append(left.RecordIds, am.RecordIds[p])
			leftInd++
		} else {
			right.Observations.SetRow(rightInd, am.Observations.RawRowView(p))
			right.RecordIds = append(right.RecordIds, am.RecordIds[p])
			rightInd++
		}
	}
	return
}

//Union stacks the observations of two sets, receiver first.
func (am ARMatrix) Union(other ARMatrix) ARMatrix {
	switch {
	case am.Height() == 0:
		return other
	case other.Height() == 0:
		return am
	}
	var stacked mat.Dense
	stacked.Stack(am.Observations, other.Observations)
	ids := make([]int, 0, am.Height()+other.Height())
	ids = append(ids, am.RecordIds...)
	ids = append(ids, other.RecordIds...)
	return ARMatrix{Observations: &stacked, RecordIds: ids}
}

//EmbedSeries turns a univariate series into observations [x(t-p), ..., x(t-1), x(t)].
func EmbedSeries(series []float64, p int) (ARMatrix, error) {
	if p < 1 {
		return ARMatrix{}, fmt.Errorf("%w: autoregressive order %d", ErrInvalidHyperparameter, p)
	}
	if len(series) <= p {
		return ARMatrix{}, fmt.Errorf("%w: a series of %d values gives no observation of order %d", ErrEmptyDataset, len(series), p)
	}
	h := len(series) - p
	observations := mat.NewDense(h, p+1, nil)
	for t := 0; t < h; t++ {
		observations.SetRow(t, series[t:t+p+1])
	}
	return NewARMatrix(observations), nil
}

//ReadARMatrix reads observations stored as a two dimensional npy array.
func ReadARMatrix(fileName string) (ARMatrix, error) {
	log.Print("\ttry to load observations <", fileName, ">")
	observations, err := ReadNpy(fileName)
	if err != nil {
		return ARMatrix{}, err
	}
	am := NewARMatrix(observations)
	am.SetDescription(fileName)
	return am, nil
}

//ReadSeries reads a univariate series stored as an npy array of any shape.
func ReadSeries(fileName string) ([]float64, error) {
	log.Print("\ttry to load series <", fileName, ">")
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func() { HandleError(f.Close()) }()

	var series []float64
	if err := npyio.Read(f, &series); err != nil {
		return nil, fmt.Errorf("read series %s: %w", fileName, err)
	}
	return series, nil
}

//ReadNpy reads the content of npy file
func ReadNpy(fileName string) (*mat.Dense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}

	denseMat := &mat.Dense{}
	if err := r.Read(denseMat); err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	return denseMat, nil
}

//WriteNpy stores a matrix as an npy file.
func WriteNpy(fileName string, m *mat.Dense) error {
	dst, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := npyio.Write(dst, m); err != nil {
		_ = dst.Close()
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	return dst.Close()
}

// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"io"
	"log"
	"sync"
	"unsafe"

	"github.com/tarstars/bayesian_ar_tree/golang/ar_tree/artl"
	"gonum.org/v1/gonum/mat"
)

type storedTree struct {
	root  artl.Node
	order int
}

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	trees             = make(map[uint64]storedTree)

	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeTree(tree storedTree) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	trees[handle] = tree
	nextHandle++
	return handle
}

func fetchTree(handle uint64) (storedTree, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	tree, ok := trees[handle]
	if !ok {
		return storedTree{}, errors.New("invalid tree handle")
	}
	return tree, nil
}

//export FreeTree
func FreeTree(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(trees, uint64(handle))
}

func copyFloatSlice(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	src := unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length)
	dst := make([]float64, length)
	copy(dst, src)
	return dst, nil
}

func sliceFromPtr(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length), nil
}

func buildDense(ptr *C.double, rows, cols C.int) (*mat.Dense, error) {
	r := int(rows)
	c := int(cols)
	if r <= 0 || c <= 0 {
		return nil, errors.New("invalid matrix dimensions")
	}
	data, err := copyFloatSlice(ptr, r*c)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(r, c, data), nil
}

//TrainTree grows a tree on a row major rows x (order+1) table of observations and returns its handle, 0 on failure.
//alphaU is passed through unchanged; callers supply artl.DefaultAlphaU themselves.
//
//export TrainTree
func TrainTree(
	dataPtr *C.double,
	rows C.int,
	cols C.int,
	order C.int,
	priorMeanPtr *C.double,
	priorMeanLen C.int,
	alphaU C.double,
	maxDepth C.int,
	minSize C.int,
) C.ulonglong {
	setLastError(nil)
	logSilenceOnce.Do(func() {
		log.SetOutput(io.Discard)
	})

	observations, err := buildDense(dataPtr, rows, cols)
	if err != nil {
		setLastError(err)
		return 0
	}

	priorMean, err := copyFloatSlice(priorMeanPtr, int(priorMeanLen))
	if err != nil {
		setLastError(err)
		return 0
	}

	hp, err := artl.NewHyperParams(int(order), priorMean, float64(alphaU))
	if err != nil {
		setLastError(err)
		return 0
	}

	root, err := artl.BuildTree(hp, artl.NewARMatrix(observations), int(maxDepth), int(minSize))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeTree(storedTree{root: root, order: hp.Order()}))
}

//TreeOrder returns the autoregressive order of a tree, -1 for an invalid handle.
//
//export TreeOrder
func TreeOrder(handle C.ulonglong) C.int {
	setLastError(nil)
	tree, err := fetchTree(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	return C.int(tree.order)
}

//PredictTree writes rows x (order+2) values [variance, coefficients, intercept] into outputPtr.
//
//export PredictTree
func PredictTree(
	handle C.ulonglong,
	featuresPtr *C.double,
	rows C.int,
	cols C.int,
	outputPtr *C.double,
) C.int {
	setLastError(nil)
	tree, err := fetchTree(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	features, err := buildDense(featuresPtr, rows, cols)
	if err != nil {
		setLastError(err)
		return 2
	}

	prediction, err := artl.PredictBatch(tree.root, features)
	if err != nil {
		setLastError(err)
		return 3
	}

	outSlice, err := sliceFromPtr(outputPtr, int(rows)*(tree.order+2))
	if err != nil {
		setLastError(err)
		return 4
	}
	copy(outSlice, prediction.RawMatrix().Data)
	return 0
}

//export SaveTree
func SaveTree(handle C.ulonglong, path *C.char) C.int {
	setLastError(nil)
	tree, err := fetchTree(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	if err := artl.Flatten(tree.root, tree.order).Save(C.GoString(path)); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export LoadTree
func LoadTree(path *C.char) C.ulonglong {
	setLastError(nil)
	stored, err := artl.LoadModel(C.GoString(path))
	if err != nil {
		setLastError(err)
		return 0
	}
	root, err := stored.Root()
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeTree(storedTree{root: root, order: stored.Order}))
}

//export RenderTree
func RenderTree(handle C.ulonglong, figureType, path *C.char) C.int {
	setLastError(nil)
	tree, err := fetchTree(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	goFigureType := C.GoString(figureType)
	if goFigureType == "" {
		goFigureType = "svg"
	}
	if err := artl.Flatten(tree.root, tree.order).RenderTree(goFigureType, C.GoString(path)); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}

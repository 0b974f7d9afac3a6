package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tarstars/bayesian_ar_tree/golang/ar_tree/artl"
	"gopkg.in/yaml.v3"
)

//TrainConfig describes a train run. Exactly one of the data file and the series file is set.
type TrainConfig struct {
	Description      string    `json:"description" yaml:"description"`
	FileNameData     string    `json:"filename_data" yaml:"filename_data"`
	FileNameSeries   string    `json:"filename_series" yaml:"filename_series"`
	Order            int       `json:"order" yaml:"order"`
	PriorMean        []float64 `json:"prior_mean" yaml:"prior_mean"`
	AlphaU           *float64  `json:"alpha_u" yaml:"alpha_u"`
	MaxDepth         int       `json:"max_depth" yaml:"max_depth"`
	MinSize          int       `json:"min_size" yaml:"min_size"`
	FileNameModel    string    `json:"filename_model" yaml:"filename_model"`
	FileNameTreeDump string    `json:"filename_tree_dump" yaml:"filename_tree_dump"`
}

//Validate fills the defaults and checks the files and stopping rules.
//Only an omitted alpha_u gets the default; an explicit value is checked by artl.NewHyperParams.
func (tc *TrainConfig) Validate() error {
	if (tc.FileNameData == "") == (tc.FileNameSeries == "") {
		return fmt.Errorf("exactly one of filename_data and filename_series should be set")
	}
	if tc.FileNameModel == "" {
		return fmt.Errorf("filename_model is required")
	}
	if tc.AlphaU == nil {
		alphaU := artl.DefaultAlphaU
		tc.AlphaU = &alphaU
	}
	return tc.TreeParams().Validate()
}

//TreeParams returns the stopping rules of the run.
func (tc TrainConfig) TreeParams() artl.TreeParams {
	return artl.TreeParams{MaxDepth: tc.MaxDepth, MinSize: tc.MinSize}
}

//PredictConfig describes a predict run.
type PredictConfig struct {
	DataFileName       string `json:"filename_features" yaml:"filename_features"`
	ModelFileName      string `json:"filename_model" yaml:"filename_model"`
	PredictionFileName string `json:"filename_prediction" yaml:"filename_prediction"`
}

//GraphConfig describes a graph run.
type GraphConfig struct {
	ModelFileName   string `json:"filename_model" yaml:"filename_model"`
	FigureType      string `json:"figure_type" yaml:"figure_type"`
	PictureFileName string `json:"filename_picture" yaml:"filename_picture"`
}

//DumpConfig describes a dump run. An empty dump file means standard output.
type DumpConfig struct {
	ModelFileName string `json:"filename_model" yaml:"filename_model"`
	DumpFileName  string `json:"filename_dump" yaml:"filename_dump"`
}

//EmbedConfig describes an embed run.
type EmbedConfig struct {
	SeriesFileName string `json:"filename_series" yaml:"filename_series"`
	Order          int    `json:"order" yaml:"order"`
	DataFileName   string `json:"filename_data" yaml:"filename_data"`
}

func decodeConfig(srcConfig string, out interface{}) error {
	file, err := os.Open(srcConfig)
	if err != nil {
		return err
	}
	defer func() { artl.HandleError(file.Close()) }()

	return decodeConfigFrom(file, filepath.Ext(srcConfig), out)
}

func decodeConfigFrom(r io.Reader, ext string, out interface{}) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)
		if err := decoder.Decode(out); err != nil {
			return fmt.Errorf("decode yaml config: %w", err)
		}
	default:
		decoder := json.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(out); err != nil {
			return fmt.Errorf("decode json config: %w", err)
		}
	}
	return nil
}

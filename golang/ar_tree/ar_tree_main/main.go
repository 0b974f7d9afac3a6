package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tarstars/bayesian_ar_tree/golang/ar_tree/artl"
)

type rootCmdConfig struct {
	configFile string
	verbose    bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "ar_tree",
		Short: "ar_tree grows bayesian autoregressive regression trees",
		Long: `A tool to grow regression trees with autoregressive leaf models from observations
or raw series, predict leaf models for new lags and inspect the stored trees`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetPrefix("ar_tree ")
			if config.verbose {
				log.SetOutput(os.Stderr)
			} else {
				log.SetOutput(io.Discard)
			}
			return config.applyEnv(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&(config.configFile), "config", "c", "ar_tree_config.json", "a json or yaml config file for the run of the program")
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", true, "log the progress to stderr")
	rootCmd.AddCommand(
		modeCmd(config, "train", "Grow a tree and store it as a model file", func(src string) error {
			var trainConfig TrainConfig
			if err := decodeConfig(src, &trainConfig); err != nil {
				return err
			}
			return train(trainConfig)
		}),
		modeCmd(config, "predict", "Store the leaf models of a feature table as an npy table", func(src string) error {
			var predictConfig PredictConfig
			if err := decodeConfig(src, &predictConfig); err != nil {
				return err
			}
			return predict(predictConfig)
		}),
		modeCmd(config, "graph", "Render a stored tree as a picture", func(src string) error {
			var graphConfig GraphConfig
			if err := decodeConfig(src, &graphConfig); err != nil {
				return err
			}
			return graph(graphConfig)
		}),
		modeCmd(config, "dump", "Print a stored tree as text", func(src string) error {
			var dumpConfig DumpConfig
			if err := decodeConfig(src, &dumpConfig); err != nil {
				return err
			}
			return dump(dumpConfig)
		}),
		modeCmd(config, "embed", "Turn a series into an npy table of lagged observations", func(src string) error {
			var embedConfig EmbedConfig
			if err := decodeConfig(src, &embedConfig); err != nil {
				return err
			}
			return embed(embedConfig)
		}),
	)
	return rootCmd
}

//configEnv names the config file when --config is not given. It may come from a .env file.
const configEnv = "AR_TREE_CONFIG"

func (rc *rootCmdConfig) applyEnv(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if cmd.Flags().Changed("config") {
		return nil
	}
	if configFile := os.Getenv(configEnv); configFile != "" {
		rc.configFile = configFile
	}
	return nil
}

func modeCmd(rootConfig *rootCmdConfig, use, short string, run func(string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootConfig.configFile)
		},
	}
}

func loadObservations(trainConfig TrainConfig) (artl.ARMatrix, error) {
	if trainConfig.FileNameData != "" {
		return artl.ReadARMatrix(trainConfig.FileNameData)
	}
	series, err := artl.ReadSeries(trainConfig.FileNameSeries)
	if err != nil {
		return artl.ARMatrix{}, err
	}
	return artl.EmbedSeries(series, trainConfig.Order)
}

func train(trainConfig TrainConfig) error {
	if err := trainConfig.Validate(); err != nil {
		return err
	}
	hp, err := artl.NewHyperParams(trainConfig.Order, trainConfig.PriorMean, *trainConfig.AlphaU)
	if err != nil {
		return err
	}

	am, err := loadObservations(trainConfig)
	if err != nil {
		return err
	}
	if trainConfig.Description != "" {
		am.SetDescription(trainConfig.Description)
	}

	params := trainConfig.TreeParams()
	root, err := artl.BuildTree(hp, am, params.MaxDepth, params.MinSize)
	if err != nil {
		return err
	}
	log.Printf("tree of depth %d with %d leaves", artl.Depth(root), len(artl.Leaves(root)))

	if trainConfig.FileNameTreeDump != "" {
		if err := writeDump(root, trainConfig.FileNameTreeDump); err != nil {
			return err
		}
	}
	return artl.Flatten(root, hp.Order()).Save(trainConfig.FileNameModel)
}

func loadRoot(modelFileName string) (artl.Node, error) {
	log.Print("\ttry to load model <", modelFileName, ">")
	tree, err := artl.LoadModel(modelFileName)
	if err != nil {
		return nil, err
	}
	return tree.Root()
}

func predict(predictConfig PredictConfig) error {
	features, err := artl.ReadNpy(predictConfig.DataFileName)
	if err != nil {
		return err
	}

	root, err := loadRoot(predictConfig.ModelFileName)
	if err != nil {
		return err
	}

	prediction, err := artl.PredictBatch(root, features)
	if err != nil {
		return err
	}
	return artl.WriteNpy(predictConfig.PredictionFileName, prediction)
}

func graph(graphConfig GraphConfig) error {
	tree, err := artl.LoadModel(graphConfig.ModelFileName)
	if err != nil {
		return err
	}
	figureType := graphConfig.FigureType
	if figureType == "" {
		figureType = "svg"
	}
	pictureFileName := graphConfig.PictureFileName
	if pictureFileName == "" {
		pictureFileName = fmt.Sprintf("tree.%s", figureType)
	}
	return tree.RenderTree(figureType, pictureFileName)
}

func writeDump(root artl.Node, fileName string) error {
	dst, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := artl.WriteTree(dst, root); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

func dump(dumpConfig DumpConfig) error {
	root, err := loadRoot(dumpConfig.ModelFileName)
	if err != nil {
		return err
	}
	if dumpConfig.DumpFileName == "" {
		return artl.WriteTree(os.Stdout, root)
	}
	return writeDump(root, dumpConfig.DumpFileName)
}

func embed(embedConfig EmbedConfig) error {
	series, err := artl.ReadSeries(embedConfig.SeriesFileName)
	if err != nil {
		return err
	}
	am, err := artl.EmbedSeries(series, embedConfig.Order)
	if err != nil {
		return err
	}
	return artl.WriteNpy(embedConfig.DataFileName, am.Observations)
}

package main

import "context"
import "flag"
import "fmt"
import "os"
import "os/signal"

import "go.uber.org/zap"

import "github.com/neurlang/newsclassifier/config"
import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/loader"
import "github.com/neurlang/newsclassifier/pipeline"
import "github.com/neurlang/newsclassifier/trainer"

func main() {
	cfgfile := flag.String("config", "", "yaml configuration file")
	dstmodel := flag.String("dstmodel", "", "model destination .json.zlib file")
	resume := flag.Bool("resume", false, "resume training")
	epochs := flag.Int("epochs", -1, "override train.epochs")
	train := flag.String("train", "", "override data.train csv")
	flag.Parse()

	cfg, err := config.Load(*cfgfile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *dstmodel != "" {
		cfg.Model.Snapshot = *dstmodel
	}
	if *epochs >= 0 {
		cfg.Train.Epochs = *epochs
	}
	if *train != "" {
		cfg.Data.Train = *train
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := pipeline.Logger(cfg, "train_news")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, *resume, log); err != nil {
		log.Error("training failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, resume bool, log *zap.Logger) error {
	p, err := pipeline.Open(cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()

	records, err := p.Records(cfg.Data.Train, false)
	if err != nil {
		return err
	}
	split, err := datasets.SplitDataset(records, cfg.Data.ValFraction, cfg.Data.Seed)
	if err != nil {
		return err
	}
	log.Info("split", zap.Int("train", len(split.Train)), zap.Int("validation", len(split.Validation)))

	trainLoader, err := p.Loader(split.Train, true)
	if err != nil {
		return err
	}
	valLoader, err := p.Loader(split.Validation, false)
	if err != nil {
		return err
	}

	net, err := p.NewNetwork()
	if err != nil {
		return err
	}
	if net, err = trainer.Resume(net, resume, cfg.Model.Snapshot); err != nil {
		return err
	}
	model, err := p.Classifier(net)
	if err != nil {
		return err
	}

	t, err := trainer.New(model, trainer.Config{
		Epochs: cfg.Train.Epochs,
		Hyper:  cfg.Train.Optimizer.Hyper(),
		Logger: log,
	})
	if err != nil {
		return err
	}
	if _, err := t.Train(ctx, trainLoader, valLoader); err != nil {
		return err
	}
	if err := net.WriteZlibWeightsToFile(cfg.Model.Snapshot); err != nil {
		return err
	}
	log.Info("saved", zap.String("snapshot", cfg.Model.Snapshot))

	if cfg.Data.Test == "" {
		return nil
	}
	if _, err := os.Stat(cfg.Data.Test); err != nil {
		log.Warn("no test set", zap.String("path", cfg.Data.Test))
		return nil
	}
	test, err := p.Records(cfg.Data.Test, false)
	if err != nil {
		return err
	}
	testData, err := p.Samples(test, false)
	if err != nil {
		return err
	}
	report, err := trainer.NewEvaluator(model, p.Labels.AllNames(), log).
		Evaluate(ctx, loader.MustNew(testData, cfg.Train.BatchSize, false, 0))
	if err != nil {
		return err
	}
	fmt.Println(report)
	return nil
}

package main

import "context"
import "flag"
import "fmt"
import "os"
import "os/signal"

import "go.uber.org/zap"

import "github.com/neurlang/newsclassifier/config"
import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/pipeline"
import "github.com/neurlang/newsclassifier/trainer"

func main() {
	cfgfile := flag.String("config", "", "yaml configuration file")
	dstmodel := flag.String("dstmodel", "", "model .json.zlib file, read when present and written after training")
	unlabeled := flag.String("unlabeled", "", "override data.unlabeled csv")
	threshold := flag.Float64("threshold", -1, "override semi.threshold")
	refresh := flag.String("refresh", "", "override semi.refresh (epoch or batch)")
	flag.Parse()

	cfg, err := config.Load(*cfgfile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *dstmodel != "" {
		cfg.Model.Snapshot = *dstmodel
	}
	if *unlabeled != "" {
		cfg.Data.Unlabeled = *unlabeled
	}
	if *threshold >= 0 {
		cfg.Semi.Threshold = *threshold
	}
	if *refresh != "" {
		cfg.Semi.Refresh = trainer.Refresh(*refresh)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := pipeline.Logger(cfg, "train_semisupervised")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, log); err != nil {
		log.Error("semi-supervised training failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
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
	trainLoader, err := p.Loader(split.Train, true)
	if err != nil {
		return err
	}
	valLoader, err := p.Loader(split.Validation, false)
	if err != nil {
		return err
	}

	// without a dedicated unlabeled file the test texts serve as the pool
	source := cfg.Data.Unlabeled
	if source == "" {
		source = cfg.Data.Test
	}
	pool, err := p.Records(source, true)
	if err != nil {
		return err
	}
	unlabeled, err := p.Samples(pool, true)
	if err != nil {
		return err
	}

	net, err := p.NewNetwork()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(cfg.Model.Snapshot)
	if net, err = trainer.Resume(net, statErr == nil, cfg.Model.Snapshot); err != nil {
		return err
	}
	model, err := p.Classifier(net)
	if err != nil {
		return err
	}

	s, err := trainer.NewSemiSupervised(model, trainer.SemiConfig{
		Epochs:    cfg.Semi.Epochs,
		Hyper:     cfg.Semi.Optimizer.Hyper(),
		Threshold: cfg.Semi.Threshold,
		Epsilon:   cfg.Semi.Epsilon,
		Refresh:   cfg.Semi.Refresh,
		BatchSize: cfg.Train.BatchSize,
		Seed:      cfg.Data.Seed,
		Names:     p.Labels.AllNames(),
		Logger:    log,
	})
	if err != nil {
		return err
	}
	stats, err := s.Train(ctx, trainLoader, unlabeled, valLoader)
	for _, st := range stats {
		fmt.Printf("epoch %d/%d\n%s\n", st.Epoch, cfg.Semi.Epochs, st.Report)
	}
	if err != nil {
		return err
	}
	if err := net.WriteZlibWeightsToFile(cfg.Model.Snapshot); err != nil {
		return err
	}
	log.Info("saved", zap.String("snapshot", cfg.Model.Snapshot))
	return nil
}

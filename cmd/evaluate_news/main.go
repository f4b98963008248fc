package main

import "context"
import "flag"
import "fmt"
import "os"

import "go.uber.org/zap"

import "github.com/neurlang/newsclassifier/config"
import "github.com/neurlang/newsclassifier/loader"
import "github.com/neurlang/newsclassifier/net/hybrid"
import "github.com/neurlang/newsclassifier/pipeline"
import "github.com/neurlang/newsclassifier/trainer"

func main() {
	cfgfile := flag.String("config", "", "yaml configuration file")
	dstmodel := flag.String("dstmodel", "", "model .json.zlib file")
	test := flag.String("test", "", "override data.test csv")
	flag.Parse()

	cfg, err := config.Load(*cfgfile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *dstmodel != "" {
		cfg.Model.Snapshot = *dstmodel
	}
	if *test != "" {
		cfg.Data.Test = *test
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := pipeline.Logger(cfg, "evaluate_news")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("evaluation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	net, err := hybrid.ReadZlibWeightsFromFile(cfg.Model.Snapshot)
	if err != nil {
		return err
	}
	p, err := pipeline.Open(cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()
	model, err := p.Classifier(net)
	if err != nil {
		return err
	}

	records, err := p.Records(cfg.Data.Test, false)
	if err != nil {
		return err
	}
	data, err := p.Samples(records, false)
	if err != nil {
		return err
	}
	l, err := loader.New(data, cfg.Train.BatchSize, false, 0)
	if err != nil {
		return err
	}
	report, err := trainer.NewEvaluator(model, p.Labels.AllNames(), log).Evaluate(ctx, l)
	if err != nil {
		return err
	}
	fmt.Printf("Test Accuracy: %.4f\n", report.Accuracy)
	fmt.Printf("Precision (weighted): %.4f\n", report.Weighted.Precision)
	fmt.Printf("Recall (weighted): %.4f\n", report.Weighted.Recall)
	fmt.Printf("F1-Score (weighted): %.4f\n\n", report.Weighted.F1)
	fmt.Println(report)
	return nil
}

package main

import "bufio"
import "flag"
import "fmt"
import "os"

import "go.uber.org/zap"

import "github.com/neurlang/newsclassifier/config"
import "github.com/neurlang/newsclassifier/inference"
import "github.com/neurlang/newsclassifier/net/hybrid"
import "github.com/neurlang/newsclassifier/pipeline"

func main() {
	cfgfile := flag.String("config", "", "yaml configuration file")
	dstmodel := flag.String("dstmodel", "", "model .json.zlib file")
	probs := flag.Bool("probs", false, "print the probability of every class")
	flag.Parse()

	cfg, err := config.Load(*cfgfile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *dstmodel != "" {
		cfg.Model.Snapshot = *dstmodel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.Log.Level = "warn"
	log, err := pipeline.Logger(cfg, "infer_news")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	if err := run(cfg, log, *probs, flag.Args()); err != nil {
		log.Error("inference failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger, probs bool, args []string) error {
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

	classify := func(text string) {
		pred, err := inference.Predict(model, p.Tokenizer, p.Labels, text)
		if err != nil {
			log.Error("predict", zap.Error(err))
			return
		}
		fmt.Printf("%d\t%s\t%.4f\n", pred.Label, pred.Name, pred.Confidence)
		if probs {
			for i, v := range pred.Probs {
				fmt.Printf("\t%s\t%.4f\n", p.Labels.Name(i), v)
			}
		}
	}
	if len(args) > 0 {
		for _, text := range args {
			classify(text)
		}
		return nil
	}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		classify(scanner.Text())
	}
	return scanner.Err()
}

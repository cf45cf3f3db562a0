package main

import (
	"flag"
	"os"
	"strings"

	log "github.com/golang/glog"
	"github.com/joho/godotenv"

	"github.com/utcompling/geotopics/corpus"
	"github.com/utcompling/geotopics/gazetteer"
	"github.com/utcompling/geotopics/model"
	"github.com/utcompling/geotopics/region"
)

var (
	input        = flag.String("input_file", "", "input training file, one document per line ($GEOTOPICS_INPUT)")
	gazetteerFn  = flag.String("gazetteer_file", "", "gazetteer file (.tsv, or .db/.sqlite for a places database) ($GEOTOPICS_GAZETTEER)")
	stopwordFn   = flag.String("stopword_file", "", "stopword file, one word per line; built-in English list if empty ($GEOTOPICS_STOPWORDS)")
	modelType    = flag.String("model", "region", "model type")
	degrees      = flag.Float64("degrees_per_region", 3.0, "width and height of a region in degrees")
	alpha        = flag.Float64("alpha", 1.0, "document-region mixture hyperparameter")
	beta         = flag.Float64("beta", 0.1, "word-region mixture hyperparameter")
	initialTemp  = flag.Float64("initial_temperature", 1.0, "annealing start temperature")
	targetTemp   = flag.Float64("target_temperature", 1.0, "annealing target temperature")
	tempDecr     = flag.Float64("temperature_decrement", 0.1, "annealing temperature decrement")
	iterations   = flag.Int("iter", 100, "burn-in iterations per temperature")
	samples      = flag.Int("samples", 10, "number of samples to collect after burn-in")
	lag          = flag.Int("lag", 10, "iterations between samples")
	seed         = flag.Int64("seed", 1, "random seed")
	outputPrefix = flag.String("output_prefix", "geotopics", "path prefix for the persisted count tables")
	topWords     = flag.Int("top_words", 10, "words to print per region")
)

// fallbackToEnv fills a string flag left empty on the command line
// from the environment. It must run after godotenv.Load has folded
// any .env file into the environment and after flag.Parse.
func fallbackToEnv(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}

func main() {
	godotenv.Load()
	flag.Parse()

	fallbackToEnv(input, "GEOTOPICS_INPUT")
	fallbackToEnv(gazetteerFn, "GEOTOPICS_GAZETTEER")
	fallbackToEnv(stopwordFn, "GEOTOPICS_STOPWORDS")

	if *input == "" || *gazetteerFn == "" {
		log.Exit("both -input_file and -gazetteer_file are required")
	}

	gaz, err := loadGazetteer(*gazetteerFn)
	if err != nil {
		log.Exitf("loading gazetteer: %v", err)
	}

	stopwords := corpus.NewStopwordList()
	if *stopwordFn != "" {
		stopwords, err = corpus.LoadStopwordList(*stopwordFn)
		if err != nil {
			log.Exitf("loading stopwords: %v", err)
		}
	}

	data := corpus.NewCorpus()
	if err := data.Load(*input, gaz, stopwords); err != nil {
		log.Exitf("loading corpus: %v", err)
	}

	grid, err := region.NewGrid(*degrees)
	if err != nil {
		log.Exit(err)
	}
	filters, err := region.BuildFilters(data, gaz, grid)
	if err != nil {
		log.Exit(err)
	}

	ctor, err := model.GetModel(*modelType)
	if err != nil {
		log.Exit(err)
	}
	m, err := ctor(data, filters, model.Config{
		Alpha: *alpha,
		Beta:  *beta,
		Seed:  *seed,
	})
	if err != nil {
		log.Exit(err)
	}

	annealer, err := model.NewAnnealer(model.AnnealerConfig{
		InitialTemperature:   *initialTemp,
		TargetTemperature:    *targetTemp,
		TemperatureDecrement: *tempDecr,
		BurnInIterations:     *iterations,
		Samples:              *samples,
		Lag:                  *lag,
	})
	if err != nil {
		log.Exit(err)
	}

	if err := m.RandomInitialize(); err != nil {
		log.Exit(err)
	}
	if err := m.Train(annealer); err != nil {
		log.Exit(err)
	}

	if err := m.SaveState(*outputPrefix); err != nil {
		log.Exitf("saving model state: %v", err)
	}
	if err := m.PrintRegionWords(os.Stdout, grid, *topWords); err != nil {
		log.Exitf("printing region words: %v", err)
	}
}

func loadGazetteer(fn string) (*gazetteer.Gazetteer, error) {
	if strings.HasSuffix(fn, ".db") || strings.HasSuffix(fn, ".sqlite") {
		return gazetteer.LoadSQLite(fn)
	}
	return gazetteer.LoadTSV(fn)
}

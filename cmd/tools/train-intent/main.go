// cmd/tools/train-intent/main.go
//
// Trains the intent classifier from a labeled data file and writes the
// model artifact the server loads at startup.
//
//	train-intent -data data/intents.txt -out data/intent-model.json
//
// With no -data flag the seed data compiled into the binary is used.
package main

import (
	"flag"
	"fmt"
	"os"

	"butik-nlu/internal/nlu/intent"
)

func main() {
	dataPath := flag.String("data", "", "Labeled training data file (__label__<intent> <text> per line); empty uses the built-in seed data")
	outPath := flag.String("out", "intent-model.json", "Output path for the model artifact")
	evaluate := flag.Bool("eval", true, "Report training-set accuracy after fitting")
	flag.Parse()

	var (
		samples []intent.Sample
		err     error
	)
	if *dataPath == "" {
		fmt.Println("No -data given, training on built-in seed data")
		model, derr := intent.DefaultModel()
		if derr != nil {
			fatal("seed training failed: %v", derr)
		}
		if err := model.Save(*outPath); err != nil {
			fatal("saving artifact failed: %v", err)
		}
		fmt.Printf("Model written to %s\n", *outPath)
		return
	}

	samples, err = intent.LoadSamples(*dataPath)
	if err != nil {
		fatal("reading %s failed: %v", *dataPath, err)
	}
	fmt.Printf("Loaded %d samples from %s\n", len(samples), *dataPath)

	model, err := intent.Train(samples)
	if err != nil {
		fatal("training failed: %v", err)
	}

	if *evaluate {
		correct := 0
		for _, s := range samples {
			label, _, perr := model.Predict(s.Text)
			if perr == nil && label == s.Label {
				correct++
			}
		}
		fmt.Printf("Training-set accuracy: %d/%d (%.1f%%)\n",
			correct, len(samples), 100*float64(correct)/float64(len(samples)))
	}

	if err := model.Save(*outPath); err != nil {
		fatal("saving artifact failed: %v", err)
	}
	fmt.Printf("Model written to %s (%d labels)\n", *outPath, len(model.Labels))
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

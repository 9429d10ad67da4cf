package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) > 1 {
		cmd := os.Args[1]
		switch cmd {
		case "train":
			if err := RunTrainCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "benchmark":
			if err := RunBenchmarkCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "predict":
			if err := RunPredictCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "serve":
			if err := RunServeCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "help", "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
			printUsage()
			os.Exit(1)
		}
	}

	printUsage()
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run . [command] [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  train      Train a duplicate-question model on a TSV dataset")
	fmt.Println("  benchmark  Fit and evaluate the word-share logistic baseline")
	fmt.Println("  predict    Score one question pair with saved artifacts")
	fmt.Println("  serve      Serve an interactive scoring form over HTTP")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  go run . train -data=quora.tsv -model=model.bin -vocab=vocab.txt")
	fmt.Println("  go run . train -data=quora.tsv -lstm -config=config.yaml")
	fmt.Println("  go run . benchmark -data=quora.tsv")
	fmt.Println("  go run . predict -model=model.bin -vocab=vocab.txt -q1=\"What is R?\" -q2=\"what is r\"")
	fmt.Println("  go run . serve -model=model.bin -vocab=vocab.txt -addr=:8080")
	fmt.Println()
}

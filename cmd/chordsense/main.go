package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/chordsense/chordsense/acquire"
	"github.com/chordsense/chordsense/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	_ = godotenv.Load()

	switch os.Args[1] {
	case "analyze":
		analyzeCmd := flag.NewFlagSet("analyze", flag.ExitOnError)
		interval := analyzeCmd.Duration("interval", 500*time.Millisecond, "status poll interval")
		analyzeCmd.Parse(os.Args[2:])
		if analyzeCmd.NArg() < 1 {
			fmt.Println("usage: chordsense analyze [-interval 500ms] <audio_file_or_youtube_url>")
			os.Exit(1)
		}
		analyze(analyzeCmd.Arg(0), *interval)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("usage: chordsense <command>")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  analyze [-interval 500ms] <file|url>   detect chords and print a chord sheet")
}

func analyze(source string, interval time.Duration) {
	svc, err := pipeline.NewService(pipeline.LoadConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var id string
	if acquire.IsYouTubeURL(source) {
		id, err = svc.SubmitYouTubeJob(source, pipeline.Preferences{Instrument: "guitar"})
	} else {
		id, err = svc.SubmitFileJob(source, filepath.Base(source), pipeline.Preferences{Instrument: "guitar"})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	lastStep := ""
	for {
		job, err := svc.JobStatus(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		if job.CurrentStep != lastStep {
			fmt.Printf("[%3d%%] %s\n", job.Progress, job.CurrentStep)
			lastStep = job.CurrentStep
		}

		if job.Status == pipeline.StatusError {
			fmt.Fprintf(os.Stderr, "error: %s\n", job.Error)
			os.Exit(1)
		}
		if job.Status == pipeline.StatusCompleted {
			break
		}

		time.Sleep(interval)
	}

	result, err := svc.JobResult(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printResult(result)
}

func printResult(result *pipeline.ProcessingResult) {
	title := color.New(color.FgCyan, color.Bold)
	chordColor := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.Faint)

	fmt.Println()
	title.Printf("%s", result.Metadata.Title)
	if result.Metadata.Artist != "" {
		fmt.Printf(" - %s", result.Metadata.Artist)
	}
	fmt.Println()

	fmt.Printf("Key: %s %s    Tempo: %.0f BPM (%s)\n\n",
		result.Key.Key, result.Key.Scale, result.Tempo.BPM, result.Tempo.TimeSignature)

	if len(result.Chords) == 0 {
		fmt.Println("no chords detected")
		return
	}

	for _, det := range result.Chords {
		chordColor.Printf("%-6s", det.Chord)
		dim.Printf(" %6.1fs - %6.1fs  (%.0f%%)\n", det.Start, det.End, det.Confidence*100)
	}

	fmt.Println()
	fmt.Printf("Tuning: %v  Capo: %d\n", result.Tablature.Tuning, result.Tablature.Capo)
	for _, note := range result.Tablature.Notes {
		if len(note.Positions) == 0 {
			continue
		}
		fmt.Printf("%-6s", note.Chord)
		for _, pos := range note.Positions {
			fmt.Printf(" %d/%d", pos.String, pos.Fret)
		}
		fmt.Println()
	}
}

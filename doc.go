/*
Package parley is a scripted conversational assistant engine. It matches
free-form user input against an authored script graph with fuzzy trigram
matching and plays the selected response back with the pacing of a live
agent: a thinking pause, then a word-by-word streamed reveal.

# Concept

Parley treats an assistant as a script: a graph of nodes, each carrying
trigger phrases and a response (text, UI component directives, action
buttons, follow-up suggestions). The engine resolves input to a node,
manages the asynchronous turn, and persists the transcript, while your
application ("Host") renders messages and widgets. This Hexagonal
Architecture lets the same engine sit behind a CLI, an HTTP server, or
an embedded widget.

# Key Features

  - Fuzzy resolution: exact, containment and trigram-similarity tiers
    with a single acceptance threshold, and a scripted fallback when
    nothing clears it.
  - Paced turns: randomized thinking delay and word-boundary streaming,
    fully cancellable; a reset or a new turn supersedes the old one.
  - State persistence: transcripts snapshot to pluggable stores
    (memory, file, Redis) and restore on construction.
  - Component directives: a closed union of chart, table, confirmation
    and insight descriptors that round-trip snapshots intact.
  - Guided workflows: a step-driven flow for structured tasks, with
    checklist processing animations and quote-line handoff to the host.

# Usage

Load a YAML script and drive a session:

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/parley"
	)

	func main() {
		eng, err := parley.New("./assistant.yaml")
		if err != nil {
			log.Fatal(err)
		}

		runner := parley.NewRunner()
		runner.Input = os.Stdin
		runner.Output = os.Stdout

		if err := runner.Run(context.Background(), eng); err != nil {
			log.Fatal(err)
		}
	}

For programmatic control, use the conversation package directly: send
messages, observe events, and read the transcript as it settles.
*/
package parley

// Command tally is an interactive shell over the tally containers: a
// string-keyed hash map and an integer max-heap, with live operation
// statistics. It exists for poking at the containers by hand.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/TallyKit/tally/pkg/dheap"
	"github.com/TallyKit/tally/pkg/freqsort"
	"github.com/TallyKit/tally/pkg/hashmap"
	"github.com/TallyKit/tally/pkg/stats"
)

// Command completer for readline
var completer = readline.NewPrefixCompleter(
	readline.PcItem(".help"),
	readline.PcItem(".exit"),
	readline.PcItem(".stats"),
	readline.PcItem(".arity"),
	readline.PcItem("PUT"),
	readline.PcItem("GET"),
	readline.PcItem("DEL"),
	readline.PcItem("LEN"),
	readline.PcItem("ENTRIES"),
	readline.PcItem("PUSH"),
	readline.PcItem("POP"),
	readline.PcItem("MAX"),
	readline.PcItem("SORT"),
	readline.PcItem("DUMP"),
	readline.PcItem("FREQ"),
)

const helpText = `
tally - interactive shell for the tally containers

Commands:
  .help                   - Show this help message
  .stats                  - Show operation statistics
  .arity D                - Reset the heap with branching factor D
  .exit                   - Exit the program

  PUT key value           - Store a key-value pair in the map
  GET key                 - Retrieve a value by key
  DEL key                 - Delete a key-value pair
  LEN                     - Show map entry and bucket counts
  ENTRIES                 - Dump the map snapshot (bucket order)

  PUSH n [n...]           - Insert integers into the heap
  POP                     - Extract the maximum
  MAX                     - Peek at the maximum
  SORT                    - Heap-sort a copy of the heap, ascending
  DUMP                    - Print the raw heap slot array

  FREQ n [n...]           - Frequency-sort the given integers
`

func main() {
	fmt.Println("tally version 1.0.0")
	fmt.Println("Enter .help for usage hints.")

	m := hashmap.New[string, string](nil)
	heap := dheap.NewBinary[int64, int64]()
	collector := stats.NewCollector()

	historyFile := filepath.Join(os.TempDir(), ".tally_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tally> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing readline: %s\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		line, readErr := rl.Readline()
		if readErr != nil {
			if readErr == readline.ErrInterrupt {
				if len(line) == 0 {
					break
				}
				continue
			} else if readErr == io.EOF {
				fmt.Println("Goodbye!")
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", readErr)
			continue
		}

		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToUpper(parts[0])

		// Special dot commands
		if strings.HasPrefix(cmd, ".") {
			cmd = strings.ToLower(cmd)
			switch cmd {
			case ".help":
				fmt.Print(helpText)

			case ".stats":
				printStats(collector)

			case ".arity":
				if len(parts) < 2 {
					fmt.Println("Error: Missing arity argument")
					continue
				}
				d, err := strconv.Atoi(parts[1])
				if err != nil {
					fmt.Printf("Error: %q is not an integer\n", parts[1])
					continue
				}
				fresh, err := dheap.New[int64, int64](d)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: %s\n", err)
					continue
				}
				heap = fresh
				fmt.Printf("Heap reset with arity %d\n", d)

			case ".exit":
				fmt.Println("Goodbye!")
				return

			default:
				fmt.Printf("Unknown command: %s\n", cmd)
			}
			continue
		}

		// Regular commands
		switch cmd {
		case "PUT":
			if len(parts) < 3 {
				fmt.Println("Error: PUT requires key and value arguments")
				continue
			}
			m.Insert(parts[1], strings.Join(parts[2:], " "))
			collector.TrackOperation(stats.OpInsert)
			fmt.Println("Ok")

		case "GET":
			if len(parts) < 2 {
				fmt.Println("Error: GET requires a key argument")
				continue
			}
			collector.TrackOperation(stats.OpFind)
			if v, ok := m.Find(parts[1]); ok {
				fmt.Println(v)
			} else {
				fmt.Println("Key not found")
			}

		case "DEL":
			if len(parts) < 2 {
				fmt.Println("Error: DEL requires a key argument")
				continue
			}
			collector.TrackOperation(stats.OpErase)
			if m.Erase(parts[1]) {
				fmt.Println("Ok")
			} else {
				fmt.Println("Key not found")
			}

		case "LEN":
			fmt.Printf("%d entries in %d buckets\n", m.Len(), m.BucketCount())

		case "ENTRIES":
			collector.TrackOperation(stats.OpEntries)
			for _, e := range m.Entries() {
				fmt.Printf("%s: %s\n", e.Key, e.Value)
			}
			fmt.Printf("(%d entries)\n", m.Len())

		case "PUSH":
			values, err := parseInts(parts[1:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				continue
			}
			if len(values) == 0 {
				fmt.Println("Error: PUSH requires at least one integer")
				continue
			}
			for _, v := range values {
				heap.Insert(dheap.Entry[int64, int64]{Key: v, Value: v})
				collector.TrackOperation(stats.OpHeapInsert)
			}
			fmt.Printf("Ok (%d slots)\n", heap.Len())

		case "POP":
			collector.TrackOperation(stats.OpExtractMax)
			e, err := heap.ExtractMax()
			if err != nil {
				collector.TrackError("empty_heap")
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				continue
			}
			fmt.Println(e.Value)

		case "MAX":
			e, err := heap.Max()
			if err != nil {
				collector.TrackError("empty_heap")
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				continue
			}
			fmt.Println(e.Value)

		case "SORT":
			collector.TrackOperation(stats.OpSort)
			fmt.Println(joinInts(heap.Sort()))

		case "DUMP":
			slots := heap.Slots()
			keys := make([]int64, len(slots))
			for i, e := range slots {
				keys[i] = e.Key
			}
			fmt.Println(joinInts(keys))

		case "FREQ":
			values, err := parseInts(parts[1:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				continue
			}
			sorted, err := freqsort.SortByFrequency(values, freqsort.Options{
				Arity: heap.Arity(),
				Stats: collector,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				continue
			}
			fmt.Println(joinInts(sorted))

		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}
	}
}

// printStats renders the collector contents in a stable order.
func printStats(collector stats.Provider) {
	all := collector.GetStats()
	keys := make([]string, 0, len(all))
	for k := range all {
		if strings.HasPrefix(k, "last_") || k == "errors" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("Statistics:")
	for _, k := range keys {
		fmt.Printf("  %s: %v\n", k, all[k])
	}
	if errs, ok := all["errors"].(map[string]uint64); ok && len(errs) > 0 {
		fmt.Println("  errors:")
		errKeys := make([]string, 0, len(errs))
		for k := range errs {
			errKeys = append(errKeys, k)
		}
		sort.Strings(errKeys)
		for _, k := range errKeys {
			fmt.Printf("    %s: %d\n", k, errs[k])
		}
	}
}

// parseInts converts command arguments to int64 values.
func parseInts(args []string) ([]int64, error) {
	out := make([]int64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", a)
		}
		out = append(out, v)
	}
	return out, nil
}

// joinInts renders values space-separated.
func joinInts(values []int64) string {
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(fields, " ")
}

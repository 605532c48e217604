package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"infinitable"
)

type record []string

func main() {
	configPath := flag.String("config", "", "TOML config file")
	rowCount := flag.Int("rows", 100000, "rows to generate when no -csv is given")
	csvPath := flag.String("csv", "", "CSV file to show, first line is the header")
	verbose := flag.Bool("verbose", false, "write debug logs to infinitable.log")
	dump := flag.Bool("dump", false, "print one frame to stdout and exit")
	query := flag.String("query", "", "initial search query")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		infinitable.SetVerbose(true)
		f, err := tea.LogToFile("infinitable.log", "infinitable")
		if err != nil {
			fmt.Fprintln(os.Stderr, "log:", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = infinitable.NewLogger(f)
	}

	cfg, err := infinitable.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var (
		header []string
		rows   []record
	)
	if *csvPath != "" {
		header, rows, err = readCSV(*csvPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		header, rows = generate(*rowCount)
	}
	columns := buildColumns(header, rows)

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 120, 40
	}

	if *dump || !term.IsTerminal(int(os.Stdout.Fd())) {
		vp := &staticViewport{extent: height - 2}
		t := infinitable.NewTable(vp, columns, cfg,
			infinitable.WithTableScheduler[record](&infinitable.ManualScheduler{}),
			infinitable.WithTableLogger[record](logger),
		)
		t.SetData(rows)
		t.SetQuery(*query)
		fmt.Println(t.View())
		fmt.Printf("%d of %d rows\n", t.DisplayCount(), len(rows))
		t.Destroy()
		return
	}

	var opened []record
	m := infinitable.NewModel(columns, cfg, width, height,
		infinitable.WithTableLogger[record](logger),
		infinitable.WithRowHandler[record](func(_ int, r *record) {
			opened = append(opened, *r)
		}),
	)
	m.SetData(rows)
	if *query != "" {
		m.Table().SetQuery(*query)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// selected rows first, then anything opened with enter
	out := append(m.Table().SelectedData(), opened...)
	m.Table().Destroy()
	for _, r := range out {
		fmt.Println(strings.Join(r, "\t"))
	}
}

// staticViewport is a fixed window at the top of the table.
type staticViewport struct {
	offset int
	extent int
}

func (v *staticViewport) ScrollOffset() int         { return v.offset }
func (v *staticViewport) Extent() int               { return max(v.extent, 0) }
func (v *staticViewport) SetScrollOffset(offset int) { v.offset = max(offset, 0) }

func readCSV(path string) ([]string, []record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("read csv %s: no header", path)
	}
	rows := make([]record, len(all)-1)
	for i, line := range all[1:] {
		rows[i] = line
	}
	return all[0], rows, nil
}

var (
	services = []string{"api-gateway", "auth-service", "billing", "search", "ingest", "scheduler"}
	statuses = []string{"active", "pending", "done", "failed"}
)

func generate(n int) ([]string, []record) {
	rnd := rand.New(rand.NewSource(1))
	rows := make([]record, n)
	for i := range rows {
		rows[i] = record{
			strconv.Itoa(i),
			fmt.Sprintf("%s-%05d", services[rnd.Intn(len(services))], rnd.Intn(100000)),
			statuses[rnd.Intn(len(statuses))],
			strconv.Itoa(rnd.Intn(1 << 30)),
			strconv.FormatFloat(rnd.Float64()*1000, 'f', 2, 64),
		}
	}
	return []string{"id", "name", "status", "size", "cost"}, rows
}

// buildColumns sizes each column to its widest value and picks a preset for
// the columns the generator produces.
func buildColumns(header []string, rows []record) []infinitable.Column[record] {
	cols := make([]infinitable.Column[record], len(header))
	for i, title := range header {
		width := len(title)
		for _, r := range rows[:min(len(rows), 1000)] {
			if i < len(r) {
				width = max(width, len(r[i]))
			}
		}
		var opts []infinitable.ColumnOption
		switch title {
		case "id":
			opts = append(opts, infinitable.Number(0))
		case "size":
			opts = append(opts, infinitable.Bytes())
			width = 10
		case "cost":
			opts = append(opts, infinitable.Currency("$", 2))
			width += 3
		}
		col := i
		cols[i] = infinitable.NewColumn(title, min(width, 40), func(r *record) any {
			if col < len(*r) {
				return (*r)[col]
			}
			return ""
		}, opts...)
	}
	return cols
}

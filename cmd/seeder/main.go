package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
)

// Sample vocabulary for generated rows. Combinations cycle deterministically
// so repeated runs produce the same file.
var (
	products = []string{
		"wireless headphones", "mechanical keyboard", "standing desk",
		"ergonomic chair", "usb microphone", "webcam", "laptop stand",
		"monitor arm", "desk lamp", "cable organizer",
	}
	categories = []string{"audio", "input", "furniture", "video", "accessories"}
	regions    = []string{"north", "south", "east", "west"}
)

var (
	outFileName = flag.String("out", "sample_data.csv", "path of the CSV file to write")
	rowCount    = flag.Int("rows", 250, "number of rows to generate")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	f, err := os.Create(*outFileName)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"product", "category", "region", "units", "revenue"}); err != nil {
		panic(err)
	}

	for i := 0; i < *rowCount; i++ {
		row := []string{
			products[i%len(products)],
			categories[i%len(categories)],
			regions[i%len(regions)],
			fmt.Sprintf("%d", 10+(i*7)%90),
			fmt.Sprintf("%.2f", 99.99+float64((i*13)%400)),
		}
		if err := w.Write(row); err != nil {
			panic(err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		panic(err)
	}

	slog.Info("wrote sample data", "path", *outFileName, "rows", *rowCount)
}

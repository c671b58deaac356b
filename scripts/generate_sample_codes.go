package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleCodes creates gzipped campaign code lists for local
// development. Each file feeds one run of the import-coupons command.
func main() {
	dataDir := "data/coupons"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	campaigns := map[string][]string{
		"welcome10.gz": {
			"WELCOME10A",
			"WELCOME10B",
			"WELCOME10C",
			"WELCOME10D",
			"WELCOME10E",
		},
		"freeship.gz": {
			"FREESHIP01",
			"FREESHIP02",
			"FREESHIP03",
		},
		"lunchdeal.gz": {
			"LUNCH5OFF1",
			"LUNCH5OFF2",
			"LUNCH5OFF3",
			"LUNCH5OFF4",
		},
	}

	for filename, codes := range campaigns {
		filePath := filepath.Join(dataDir, filename)

		if err := createCodeFile(filePath, codes); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(codes))
	}

	fmt.Println("\nSample code lists created successfully!")
	fmt.Println("Import one with: go run ./cmd/import-coupons -path data/coupons/welcome10.gz -type PERCENTAGE -value 10")
}

func createCodeFile(path string, codes []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gw := gzip.NewWriter(file)
	defer gw.Close()

	for _, code := range codes {
		if _, err := fmt.Fprintln(gw, code); err != nil {
			return err
		}
	}

	return nil
}

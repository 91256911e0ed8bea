// Command boardexport dumps a Monday.com board to CSV, JSON, or XLSX.
// It is the operational companion to the sync service: finance pulls a board
// snapshot when reconciling what actually landed on the board.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/username/comprasync/backend/src/export"
	"github.com/username/comprasync/backend/src/logger"
	"github.com/username/comprasync/backend/src/monday"
)

var (
	boardID    string
	format     string
	outputPath string
	limit      int
)

var rootCmd = &cobra.Command{
	Use:   "boardexport",
	Short: "Export Monday.com board data",
	Long: `boardexport reads a Monday.com board through the GraphQL API and writes
its items to CSV, JSON, or XLSX.

Required environment variables:
  MONDAY_API_KEY  - Monday.com API token
Optional:
  MONDAY_API_URL  - API endpoint (defaults to the public endpoint)
  MONDAY_BOARD_ID - default board when --board is not given`,
}

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List boards visible to the API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		boards, err := client.ListBoards(context.Background())
		if err != nil {
			return err
		}
		for _, b := range boards {
			fmt.Printf("%s\t%s\t%s\n", b.ID, b.State, b.Name)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one board's items to a file",
	Example: `  boardexport export --board 8700483524 --format csv --output board.csv
  boardexport export --format xlsx --output board.xlsx`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if boardID == "" {
		boardID = os.Getenv("MONDAY_BOARD_ID")
	}
	if boardID == "" {
		return fmt.Errorf("no board id: pass --board or set MONDAY_BOARD_ID")
	}

	ctx := context.Background()

	boards, err := client.ListBoards(ctx)
	if err != nil {
		return err
	}
	var board monday.Board
	for _, b := range boards {
		if b.ID == boardID {
			board = b
			break
		}
	}
	if board.ID == "" {
		return fmt.Errorf("board %s not visible to this token", boardID)
	}

	columns, err := client.GetBoardColumns(ctx, boardID)
	if err != nil {
		return err
	}
	items, err := client.GetBoardItems(ctx, boardID, limit)
	if err != nil {
		return err
	}

	data := export.BuildBoardData(board, columns, items)

	if outputPath == "" {
		name := strings.ReplaceAll(board.Name, " ", "_")
		outputPath = fmt.Sprintf("monday_%s.%s", name, format)
	}

	switch format {
	case "csv", "json":
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if format == "csv" {
			err = export.WriteCSV(f, data)
		} else {
			err = export.WriteJSON(f, data)
		}
		if err != nil {
			return err
		}
	case "xlsx":
		if err := export.WriteXLSX(outputPath, data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want csv, json, or xlsx)", format)
	}

	fmt.Printf("Exported %d items from board %s to %s\n", len(data.Items), board.Name, outputPath)
	return nil
}

func newClient() (*monday.Client, error) {
	apiKey := os.Getenv("MONDAY_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("MONDAY_API_KEY is not set")
	}

	client := monday.NewClient(apiKey)
	if endpoint := os.Getenv("MONDAY_API_URL"); endpoint != "" {
		client = client.WithEndpoint(endpoint)
	}
	return client, nil
}

func init() {
	exportCmd.Flags().StringVar(&boardID, "board", "", "board id to export")
	exportCmd.Flags().StringVar(&format, "format", "csv", "output format: csv, json, or xlsx")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (defaults to monday_<board>.<format>)")
	exportCmd.Flags().IntVar(&limit, "limit", 100, "maximum items to fetch")

	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.InitLogger(logLevel)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

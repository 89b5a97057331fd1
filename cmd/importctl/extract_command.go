package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"mediabrief/internal/briefstore"
	"mediabrief/internal/catalog"
	"mediabrief/internal/config"
	"mediabrief/internal/content"
	"mediabrief/internal/csvexport"
	"mediabrief/internal/extraction"
	"mediabrief/internal/logger"
	"mediabrief/internal/parser"
	"mediabrief/internal/parser/providers"
	"mediabrief/internal/service"
	"mediabrief/internal/validator"
)

type extractOptions struct {
	briefID   string
	channel   string
	publisher string
	state     string
	buffer    int
	csvPath   string
	confirm   bool
	debug     bool
	asJSON    bool
}

func newExtractCommand(catalogPath, logLevel *string) *cobra.Command {
	opts := extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract placements from a schedule file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], *catalogPath, *logLevel, opts, cmd.Flags().Changed("buffer"))
		},
	}

	cmd.Flags().StringVar(&opts.briefID, "brief", "local", "Brief the candidates are staged against")
	cmd.Flags().StringVar(&opts.channel, "channel", "", "Declared channel")
	cmd.Flags().StringVar(&opts.publisher, "publisher", "", "Declared publisher")
	cmd.Flags().StringVar(&opts.state, "state", "", "Declared state")
	cmd.Flags().IntVar(&opts.buffer, "buffer", 0, "Days before start date that assets are due")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "Write staged candidates to this CSV file")
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "Commit every candidate to the brief")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Print the debug trail")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Output the raw extraction response as JSON")

	return cmd
}

func runExtract(cmd *cobra.Command, path, catalogPath, logLevel string, opts extractOptions, bufferSet bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(logLevel, "console")

	providers.RegisterAll()
	provider, err := parser.NewChain(cfg.Parser.Providers())
	if err != nil {
		return fmt.Errorf("failed to initialize model providers: %w", err)
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}

	svc := service.NewImportService(
		content.NewExtractor(content.NewImageMagickRenderer(cfg.Extraction.PDFDPI), cfg.Extraction.MaxPDFPages),
		extraction.NewRunner(parser.NewClient(provider), validator.NewEngine(validator.NewDefaultRegistry()), cfg.Extraction.RetryOnGenericNames),
		briefstore.NewMemoryStore(),
		cat,
		&cfg.Extraction,
	)
	return extractWith(cmd, svc, path, opts, bufferSet)
}

// extractWith runs one import through svc and prints the staged candidates.
func extractWith(cmd *cobra.Command, svc service.ImportService, path string, opts extractOptions, bufferSet bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading schedule: %w", err)
	}

	input := service.ExtractInput{
		BriefID:   opts.briefID,
		FileName:  filepath.Base(path),
		Data:      data,
		Channel:   opts.channel,
		Publisher: opts.publisher,
		State:     opts.state,
	}
	if bufferSet {
		input.BufferDays = &opts.buffer
	}

	resp, err := svc.Extract(cmd.Context(), input)
	if resp != nil && opts.asJSON {
		if jsonErr := writeJSON(cmd, resp); jsonErr != nil {
			return jsonErr
		}
		return err
	}
	if err != nil {
		if resp != nil {
			printTrail(cmd, resp.Debug.Steps)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Detected channel %q, publisher %q\n", resp.DetectedChannel, resp.DetectedPublisher)

	rows := make([][]string, 0, len(resp.Candidates))
	for i, c := range resp.Candidates {
		rows = append(rows, []string{strconv.Itoa(i + 1), c.SiteName, c.State, c.Format, c.StartDate, c.EndDate, c.DueDate})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Site", "State", "Format", "Start", "End", "Due"},
		rows,
		[]columnAlignment{alignRight},
	))

	if resp.Validation != nil && !resp.Validation.Valid {
		fmt.Fprintln(out, "Validation issues:")
		for _, issue := range resp.Validation.Issues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
	}
	if opts.debug {
		printTrail(cmd, resp.Debug.Steps)
	}

	if opts.csvPath != "" {
		if err := writeCandidatesCSV(opts.csvPath, resp, svc); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d candidate(s) to %s\n", len(resp.Candidates), opts.csvPath)
	}

	if opts.confirm {
		items, err := svc.Confirm(cmd.Context(), resp.SessionID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Committed %d item(s) to brief %s\n", len(items), opts.briefID)
	}
	return nil
}

func writeCandidatesCSV(path string, resp *service.ExtractResponse, svc service.ImportService) error {
	view, err := svc.GetSession(resp.SessionID)
	if err != nil {
		return err
	}
	selected := make(map[string]bool, len(view.Selected))
	for _, id := range view.Selected {
		selected[id] = true
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(csvexport.BOM); err != nil {
		return err
	}
	w := csvexport.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteCandidates(view.Candidates, func(id string) bool { return selected[id] }); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func printTrail(cmd *cobra.Command, steps []string) {
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "Debug trail:")
	for _, s := range steps {
		fmt.Fprintf(out, "  %s\n", s)
	}
}

// File: cmd/investigate.go
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/investigator"
	"github.com/xkilldash9x/trackscope-cli/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	investigateProfile string
	investigateOutput  string
)

var investigateCmd = &cobra.Command{
	Use:   "investigate <url>",
	Short: "Investigate one site and stream events as NDJSON on stdout.",
	Long: `Investigate launches an isolated headless browser against the given URL,
captures cookies, scripts, network requests and storage, resolves blocking
overlays, and emits the privacy score and analysis. Each event is printed as
one JSON line on stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runInvestigate,
}

func init() {
	rootCmd.AddCommand(investigateCmd)
	investigateCmd.Flags().StringVar(&investigateProfile, "profile", "desktop", "device profile (desktop or mobile)")
	investigateCmd.Flags().StringVarP(&investigateOutput, "output", "o", "", "write the final report to a JSON file")
}

func runInvestigate(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := buildComponents(ctx, appCfg, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	sink := newNDJSONSink(cmd.OutOrStdout())
	comps.investigator.Run(ctx, investigator.Request{
		URL:           normalizeTargetURL(args[0]),
		DeviceProfile: investigateProfile,
	}, sink)

	if investigateOutput != "" && sink.completion() != nil {
		if err := writeReportFile(investigateOutput, sink.completion()); err != nil {
			logger.Error("Failed to write report file.", zap.Error(err))
			return err
		}
		logger.Info("Report written.", zap.String("path", investigateOutput))
	}

	if msg := sink.failure(); msg != "" {
		return errors.New(msg)
	}
	return nil
}

// normalizeTargetURL lets users pass a bare domain on the command line.
func normalizeTargetURL(raw string) string {
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}

func writeReportFile(path string, complete *schemas.CompleteEvent) error {
	data, err := json.MarshalIndent(complete, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// ndjsonSink prints each event as one JSON line and remembers the terminal
// outcome so the command can set its exit code.
type ndjsonSink struct {
	mu  sync.Mutex
	enc *jsoniter.Encoder

	complete *schemas.CompleteEvent
	errMsg   string
}

func newNDJSONSink(w io.Writer) *ndjsonSink {
	return &ndjsonSink{enc: json.NewEncoder(w)}
}

func (s *ndjsonSink) Emit(ev schemas.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch data := ev.Data.(type) {
	case schemas.CompleteEvent:
		s.complete = &data
	case schemas.ErrorEvent:
		s.errMsg = data.Error
	case schemas.PageErrorEvent:
		s.errMsg = data.Message
	}

	// An encode failure here means stdout is gone; nothing useful remains.
	_ = s.enc.Encode(ev)
}

func (s *ndjsonSink) completion() *schemas.CompleteEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete
}

func (s *ndjsonSink) failure() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

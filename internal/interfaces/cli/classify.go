package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/application/classification"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

type classifyOptions struct {
	files  []string
	format string
}

// NewClassifyCmd classifies local register extracts without any backend.
func NewClassifyCmd() *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify register extracts from local files",
		Long: "Classify one or more register extracts.  Plain text is the register as\n" +
			"printed; json is the structured row payload.  Use --file - to read stdin.",
		Example: "  regrisk classify --file extract.txt\n" +
			"  regrisk classify --file a.txt --file b.json -o table",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.files, "file", "f", nil, "register file to classify, repeatable; - reads stdin")
	cmd.Flags().StringVar(&opts.format, "format", "", "input format (text, json); default by file extension")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runClassify(cmd *cobra.Command, opts *classifyOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if opts.format != "" && opts.format != string(classification.FormatText) && opts.format != string(classification.FormatJSON) {
		return errors.Newf(errors.ErrCodeBadRequest, "unsupported input format %q", opts.format)
	}

	limit := int64(cliCtx.Config.Classification.MaxContentBytes)
	inputs := make([]classification.Input, 0, len(opts.files))
	for _, name := range opts.files {
		content, err := readInput(cmd.InOrStdin(), name, limit)
		if err != nil {
			return err
		}
		inputs = append(inputs, classification.Input{
			Format:  inputFormat(name, opts.format),
			Content: content,
		})
	}

	engine := classification.NewEngine(
		classification.WithLogger(cliCtx.Logger),
		classification.WithBatchConcurrency(cliCtx.Config.Classification.BatchConcurrency),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	var results []registry.ClassificationResult
	if len(inputs) == 1 {
		results = []registry.ClassificationResult{engine.ClassifyInput(inputs[0])}
	} else {
		results, err = engine.ClassifyBatch(ctx, inputs)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeClassification, "batch classification interrupted")
		}
	}

	views := make(batchView, len(results))
	for i, res := range results {
		views[i] = resultView{File: opts.files[i], Result: res}
		cliCtx.Logger.Debug("document classified",
			logging.String("file", opts.files[i]),
			logging.String(logging.FieldConfidence, res.Confidence.String()),
			logging.Int("events", len(res.Document.Events)),
		)
	}

	if len(views) == 1 && cliCtx.OutputFormat == OutputJSON {
		return PrintResult(cmd, views[0].Result)
	}
	if len(views) == 1 {
		return PrintResult(cmd, views[0])
	}
	return PrintResult(cmd, views)
}

func readInput(stdin io.Reader, name string, limit int64) ([]byte, error) {
	var r io.Reader
	if name == "-" {
		r = stdin
	} else {
		f, err := os.Open(name)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.New(errors.ErrCodeSourceObjectMissing, "input file not found").WithDetail(name)
			}
			return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "failed to open input file").WithDetail(name)
		}
		defer f.Close()
		r = f
	}
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "failed to read input").WithDetail(name)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, errors.Newf(errors.ErrCodeInputTooLarge, "%s exceeds %d bytes", name, limit)
	}
	return data, nil
}

// inputFormat honours an explicit --format, else treats *.json as structured.
func inputFormat(name, explicit string) classification.Format {
	if explicit != "" {
		return classification.Format(explicit)
	}
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return classification.FormatJSON
	}
	return classification.FormatText
}

// resultView renders one classified file for text and table output.
type resultView struct {
	File   string                        `json:"file"`
	Result registry.ClassificationResult `json:"result"`
}

// String prints the audit summary once and adds only what it lacks: the base
// rule, hard stop rule ids and warnings.  Result.Warnings already carries the
// parse warnings.
func (v resultView) String() string {
	r := v.Result
	var sb strings.Builder
	fmt.Fprintf(&sb, "file: %s\n", v.File)
	sb.WriteString(r.Summary)
	sb.WriteString("\n")
	if r.CancellationBase != nil {
		fmt.Fprintf(&sb, "base rule: %s\n", r.BaseRule)
	}
	if len(r.HardStops) > 0 {
		sb.WriteString("rule hits:\n")
		for _, hs := range r.HardStops {
			fmt.Fprintf(&sb, "  %s %s\n", hs.RuleID, eventLabel(hs.Event))
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "  - %s\n", w)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (v resultView) TableHeaders() []string {
	return []string{"SEQ", "SECTION", "RANK", "ACCEPTED", "PURPOSE", "KIND", "FATE", "HARD STOP"}
}

func (v resultView) TableRows() [][]string {
	r := v.Result
	stops := make(map[int][]string)
	for _, hs := range r.HardStops {
		stops[hs.Event.Seq] = append(stops[hs.Event.Seq], hs.RuleID)
	}
	rows := make([][]string, 0, len(r.Document.Events))
	for _, ev := range r.Document.Events {
		rows = append(rows, []string{
			strconv.Itoa(ev.Seq),
			string(ev.Section),
			rankString(ev.Rank),
			orDash(ev.AcceptedOn),
			ev.StatedPurpose,
			string(ev.Kind),
			fateString(r, ev),
			orDash(strings.Join(stops[ev.Seq], ",")),
		})
	}
	return rows
}

// batchView renders several files; table rows gain a leading FILE column.
type batchView []resultView

func (b batchView) String() string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = v.String()
	}
	return strings.Join(parts, "\n\n")
}

func (b batchView) TableHeaders() []string {
	return append([]string{"FILE"}, resultView{}.TableHeaders()...)
}

func (b batchView) TableRows() [][]string {
	var rows [][]string
	for _, v := range b {
		for _, row := range v.TableRows() {
			rows = append(rows, append([]string{v.File}, row...))
		}
	}
	return rows
}

func fateString(r registry.ClassificationResult, ev registry.RegistryEvent) string {
	if r.CancellationBase != nil && r.CancellationBase.Seq == ev.Seq {
		return "BASE"
	}
	if fate, ok := r.FateOf(ev.Seq); ok {
		return string(fate)
	}
	return "-"
}

func eventLabel(ev registry.RegistryEvent) string {
	label := fmt.Sprintf("#%d %s", ev.Seq, ev.StatedPurpose)
	if ev.AcceptedOn != "" {
		label += " " + ev.AcceptedOn
	}
	return label
}

func rankString(rank *int) string {
	if rank == nil {
		return "-"
	}
	return strconv.Itoa(*rank)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

//Personal.AI order the ending
